package mocksftp

import (
	"fmt"

	"github.com/oarsail/skiff/internal/ports"
	"github.com/oarsail/skiff/internal/remote"
	"github.com/oarsail/skiff/internal/transfer"
)

// TestingT is the subset of *testing.T the helpers need.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// Env bundles the fakes handed to a transfer test: the fake endpoint, the
// fake local filesystem, a connection wired to them, and a Transfer over
// that connection.
type Env struct {
	Endpoint *Endpoint
	FS       *FS
	Conn     *remote.Connection
	Transfer *transfer.Transfer
}

// Start builds the fake environment. There is no verification step to run
// afterward; the fakes only stub return values.
func Start() (*Env, error) {
	endpoint := NewEndpoint()
	factory := func() (ports.Client, error) {
		return &client{endpoint: endpoint}, nil
	}

	conn, err := remote.New("host", remote.WithFactory(factory))
	if err != nil {
		return nil, err
	}

	fs := NewFS()
	return &Env{
		Endpoint: endpoint,
		FS:       fs,
		Conn:     conn,
		Transfer: transfer.New(conn, transfer.WithFileSystem(fs)),
	}, nil
}

// Run builds the fake environment and hands it to the test body.
func Run(t TestingT, body func(env *Env)) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	env, err := Start()
	if err != nil {
		t.Errorf("mocksftp: start: %v", err)
		t.FailNow()
		return
	}
	body(env)
}

// client is the fake connection client backing the environment. Command
// execution is not scripted here; only the transfer endpoint works.
type client struct {
	endpoint *Endpoint
}

func (c *client) Connect(host, user string, port int) error {
	return nil
}

func (c *client) Transport() (ports.Transport, error) {
	return inertTransport{}, nil
}

func (c *client) OpenTransfer() (ports.FileTransfer, error) {
	return c.endpoint, nil
}

func (c *client) Close() error {
	return nil
}

// inertTransport accepts no sessions.
type inertTransport struct{}

func (inertTransport) Active() bool {
	return true
}

func (inertTransport) OpenSession() (ports.Channel, error) {
	return nil, fmt.Errorf("mocksftp: command execution is not scripted; use mockremote")
}

var (
	_ ports.Client    = (*client)(nil)
	_ ports.Transport = inertTransport{}
)
