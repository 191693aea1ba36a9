package mockremote

import (
	"fmt"
	"sync"

	"github.com/oarsail/skiff/internal/ports"
	"github.com/stretchr/testify/require"
)

// TestingT is the subset of *testing.T verification needs. It matches
// testify's require.TestingT, so failures fail the enclosing test.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// SessionConfig scripts one connection. Zero-valued Host/User/Port mean
// "accept any". Either Commands or the single-command shorthand fields
// (Cmd/Out/Err/In/Exit/Waits) may be given, never both.
type SessionConfig struct {
	Host string
	User string
	Port int

	// Commands scripts nontrivial sessions with more than one command
	// execution per host.
	Commands []*Command

	// Shorthand for a single anonymous Command.
	Cmd   string
	Out   []byte
	Err   []byte
	In    []byte
	Exit  int
	Waits int
}

func (cfg SessionConfig) shorthandSet() bool {
	return cfg.Cmd != "" || cfg.Out != nil || cfg.Err != nil ||
		cfg.In != nil || cfg.Exit != 0 || cfg.Waits != 0
}

// Session scripts a single connection and one or more command executions,
// and owns the fakes generated for it.
type Session struct {
	Host     string
	User     string
	Port     int
	Commands []*Command

	client   *fakeClient
	channels []*Channel
}

// NewSession validates cfg and builds a Session. Giving both Commands and
// shorthand command fields is a configuration error. A config with
// neither gets one default Command.
func NewSession(cfg SessionConfig) (*Session, error) {
	if len(cfg.Commands) > 0 && cfg.shorthandSet() {
		return nil, fmt.Errorf("mockremote: cannot give both Commands and single-command fields")
	}

	commands := cfg.Commands
	if len(commands) == 0 {
		commands = []*Command{{
			Cmd:   cfg.Cmd,
			Out:   cfg.Out,
			Err:   cfg.Err,
			In:    cfg.In,
			Exit:  cfg.Exit,
			Waits: cfg.Waits,
		}}
	}

	return &Session{
		Host:     cfg.Host,
		User:     cfg.User,
		Port:     cfg.Port,
		Commands: commands,
	}, nil
}

// SessionFor scripts a session accepting any connection target and
// executing the given commands in order.
func SessionFor(commands ...*Command) *Session {
	s, _ := NewSession(SessionConfig{Commands: commands})
	return s
}

// MustSession is NewSession for statically known configs; it panics on a
// configuration error.
func MustSession(cfg SessionConfig) *Session {
	s, err := NewSession(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// generateFakes builds one fake client with one fake transport, and one
// Channel per Command. Successive OpenSession calls on the transport
// yield the channels in Command order. The transport always reports
// itself active: the transient not-yet-active state adds nothing here.
func (s *Session) generateFakes() {
	channels := make([]*Channel, len(s.Commands))
	for i, cmd := range s.Commands {
		channels[i] = newChannel(cmd)
	}
	s.channels = channels
	s.client = &fakeClient{
		transport: &fakeTransport{channels: channels},
	}
}

// Client returns the session's generated fake client.
func (s *Session) Client() ports.Client {
	return s.client
}

// Channels returns the session's generated channel simulators, one per
// Command, in order.
func (s *Session) Channels() []*Channel {
	return s.channels
}

// Verify asserts that the fake client was used exactly as scripted: the
// transport accessor once, connect once with the expected target, each
// channel exec'd with the expected command text and stdin, and exactly
// one channel open per Command. Fails fast on the first mismatch.
func (s *Session) Verify(t TestingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.NotNil(t, s.client, "session fakes were never generated")

	require.Equal(t, 1, s.client.transportCalls(),
		"transport accessor call count")

	connects := s.client.connectCalls()
	require.Len(t, connects, 1, "connect call count")
	if s.Host != "" {
		require.Equal(t, s.Host, connects[0].Host, "connect host")
	}
	if s.User != "" {
		require.Equal(t, s.User, connects[0].User, "connect user")
	}
	if s.Port != 0 {
		require.Equal(t, s.Port, connects[0].Port, "connect port")
	}

	for i, cmd := range s.Commands {
		channel := s.channels[i]
		execs := channel.ExecCalls()
		require.NotEmpty(t, execs, "command %d: exec never called", i)
		if cmd.Cmd != "" {
			require.Equal(t, cmd.Cmd, execs[len(execs)-1],
				"command %d: executed text", i)
		}
		if cmd.In != nil {
			require.Equal(t, cmd.In, channel.Stdin(),
				"command %d: recorded stdin", i)
		}
	}

	require.Equal(t, len(s.Commands), s.client.transport.openCalls(),
		"open-session call count")
}

// connectCall records one Connect invocation on the fake client.
type connectCall struct {
	Host string
	User string
	Port int
}

// fakeClient implements ports.Client, recording how it is used.
type fakeClient struct {
	mu         sync.Mutex
	transport  *fakeTransport
	transports int
	connects   []connectCall
	closed     bool
}

func (c *fakeClient) Connect(host, user string, port int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects = append(c.connects, connectCall{Host: host, User: user, Port: port})
	return nil
}

func (c *fakeClient) Transport() (ports.Transport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transports++
	return c.transport, nil
}

func (c *fakeClient) OpenTransfer() (ports.FileTransfer, error) {
	return nil, fmt.Errorf("mockremote: file transfer is not scripted; use mocksftp")
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeClient) transportCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transports
}

func (c *fakeClient) connectCalls() []connectCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]connectCall, len(c.connects))
	copy(out, c.connects)
	return out
}

// fakeTransport yields the session's channels in order.
type fakeTransport struct {
	mu       sync.Mutex
	channels []*Channel
	opens    int
}

// Active always reports true for generated fakes.
func (t *fakeTransport) Active() bool {
	return true
}

func (t *fakeTransport) OpenSession() (ports.Channel, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.opens >= len(t.channels) {
		return nil, fmt.Errorf("mockremote: OpenSession called %d times but only %d commands scripted",
			t.opens+1, len(t.channels))
	}
	channel := t.channels[t.opens]
	t.opens++
	return channel, nil
}

func (t *fakeTransport) openCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opens
}

// Ensure the fakes satisfy the ports.
var (
	_ ports.Client    = (*fakeClient)(nil)
	_ ports.Transport = (*fakeTransport)(nil)
)
