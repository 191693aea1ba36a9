package remote

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/oarsail/skiff/internal/ports"
)

const (
	// defaultChunkSize matches the classic read granularity of remote
	// execution loops: small enough to interleave stdout and stderr.
	defaultChunkSize = 1000

	// defaultPollInterval is how long Run sleeps between exit-status polls.
	defaultPollInterval = 10 * time.Millisecond
)

// RunOpts adjusts a single command execution.
type RunOpts struct {
	// Stdin is written to the command's stdin right after exec.
	Stdin []byte

	// ChunkSize overrides the output read granularity.
	ChunkSize int

	// PollInterval overrides the sleep between exit-status polls.
	PollInterval time.Duration
}

// Result holds the outcome of one command execution.
type Result struct {
	Command string
	Stdout  []byte
	Stderr  []byte
	Exited  int
}

// OK reports whether the command exited zero.
func (r *Result) OK() bool {
	return r.Exited == 0
}

func (r *Result) String() string {
	return fmt.Sprintf("Result(cmd=%q, exited=%d)", r.Command, r.Exited)
}

// Run executes cmd on the connection, draining stdout and stderr while
// polling for the exit status, and returns the collected Result. A
// non-zero exit code is reported in the Result, not as an error; errors
// mean the command could not be executed at all.
func (c *Connection) Run(cmd string, opts RunOpts) (*Result, error) {
	if err := c.Open(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	transport := c.transport
	clock := c.clock
	c.mu.Unlock()

	if !transport.Active() {
		return nil, fmt.Errorf("run %q: connection %s is not active", cmd, c.Addr())
	}

	channel, err := transport.OpenSession()
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", cmd, err)
	}
	defer channel.Close()

	if err := channel.Exec(cmd); err != nil {
		return nil, fmt.Errorf("run %q: %w", cmd, err)
	}
	slog.Debug("command started", slog.String("host", c.Host), slog.String("cmd", cmd))

	if len(opts.Stdin) > 0 {
		if _, err := channel.Send(opts.Stdin); err != nil {
			return nil, fmt.Errorf("write stdin for %q: %w", cmd, err)
		}
	}

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	var stdout, stderr bytes.Buffer
	for !channel.ExitStatusReady() {
		if err := drain(channel, &stdout, &stderr, chunk); err != nil {
			return nil, fmt.Errorf("read output of %q: %w", cmd, err)
		}
		clock.Sleep(interval)
	}

	// The command is done; pull whatever output is still buffered.
	for {
		n, err := drainOnce(channel, &stdout, &stderr, chunk)
		if err != nil {
			return nil, fmt.Errorf("read output of %q: %w", cmd, err)
		}
		if n == 0 {
			break
		}
	}

	result := &Result{
		Command: cmd,
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Exited:  channel.ExitStatus(),
	}
	slog.Debug("command finished",
		slog.String("host", c.Host),
		slog.String("cmd", cmd),
		slog.Int("exited", result.Exited),
	)
	return result, nil
}

// drain reads one chunk from each stream.
func drain(ch ports.Channel, stdout, stderr *bytes.Buffer, chunk int) error {
	_, err := drainOnce(ch, stdout, stderr, chunk)
	return err
}

// drainOnce reads up to one chunk from each stream and returns the total
// number of bytes moved.
func drainOnce(ch ports.Channel, stdout, stderr *bytes.Buffer, chunk int) (int, error) {
	out, err := ch.Recv(chunk)
	if err != nil {
		return 0, err
	}
	stdout.Write(out)

	errOut, err := ch.RecvStderr(chunk)
	if err != nil {
		return 0, err
	}
	stderr.Write(errOut)

	return len(out) + len(errOut), nil
}
