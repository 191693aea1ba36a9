package mockremote

import (
	"bytes"
	"sync"

	"github.com/oarsail/skiff/internal/ports"
)

// Channel is the scripted stand-in for a single command-execution stream.
// It replays the owning Command's stdout/stderr bytes, counts exit-status
// polls, and records everything sent or executed on it for later
// verification. Every operation succeeds; this is a passive fake.
type Channel struct {
	mu      sync.Mutex
	command *Command
	stdout  *bytes.Reader
	stderr  *bytes.Reader
	stdin   bytes.Buffer
	polls   int
	execs   []string
	closed  bool
}

func newChannel(cmd *Command) *Channel {
	return &Channel{
		command: cmd,
		stdout:  bytes.NewReader(cmd.Out),
		stderr:  bytes.NewReader(cmd.Err),
	}
}

// Exec records the executed command string.
func (c *Channel) Exec(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execs = append(c.execs, cmd)
	return nil
}

// Recv returns up to n unread bytes of scripted stdout, advancing the
// cursor. Once the buffer is exhausted it returns an empty slice.
func (c *Channel) Recv(n int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return read(c.stdout, n), nil
}

// RecvStderr returns up to n unread bytes of scripted stderr.
func (c *Channel) RecvStderr(n int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return read(c.stderr, n), nil
}

func read(r *bytes.Reader, n int) []byte {
	if n < 0 {
		n = 0
	}
	buf := make([]byte, n)
	m, _ := r.Read(buf)
	return buf[:m]
}

// Send appends p to the recorded stdin buffer and returns len(p).
func (c *Channel) Send(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stdin.Write(p)
}

// ExitStatusReady returns false for the first Waits calls, true after.
func (c *Channel) ExitStatusReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polls++
	return c.polls > c.command.Waits
}

// ExitStatus returns the scripted exit code. Callable any number of
// times, independently of poll state.
func (c *Channel) ExitStatus() int {
	return c.command.Exit
}

// Close marks the channel closed.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// --- Test inspection methods ---

// Stdin returns a copy of everything sent to the channel's stdin.
func (c *Channel) Stdin() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, c.stdin.Len())
	copy(out, c.stdin.Bytes())
	return out
}

// ExecCalls returns the command strings executed on this channel.
func (c *Channel) ExecCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.execs))
	copy(out, c.execs)
	return out
}

// Polls returns how many times ExitStatusReady has been called.
func (c *Channel) Polls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polls
}

// WasClosed returns true if Close was called.
func (c *Channel) WasClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Ensure Channel implements ports.Channel.
var _ ports.Channel = (*Channel)(nil)
