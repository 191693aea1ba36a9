package realssh

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/oarsail/skiff/internal/ports"
	"golang.org/x/crypto/ssh"
)

// Transport implements ports.Transport over an established *ssh.Client.
type Transport struct {
	conn *ssh.Client
}

// Active reports whether the connection is still usable.
func (t *Transport) Active() bool {
	return t.conn != nil
}

// OpenSession opens a new execution channel.
func (t *Transport) OpenSession() (ports.Channel, error) {
	sess, err := t.conn.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := sess.StderrPipe()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	return &Channel{
		sess:      sess,
		stdoutSrc: stdout,
		stderrSrc: stderr,
		stdin:     stdin,
		done:      make(chan struct{}),
	}, nil
}

// Channel implements ports.Channel on an *ssh.Session. Remote output is
// pumped into in-memory buffers so Recv and RecvStderr never block.
type Channel struct {
	sess      *ssh.Session
	stdoutSrc io.Reader
	stderrSrc io.Reader
	stdin     io.WriteCloser

	mu     sync.Mutex
	stdout bytes.Buffer
	stderr bytes.Buffer

	done chan struct{}
	exit int
}

// Exec starts cmd and begins pumping its output.
func (c *Channel) Exec(cmd string) error {
	if err := c.sess.Start(cmd); err != nil {
		return fmt.Errorf("exec %q: %w", cmd, err)
	}

	go c.pump(c.stdoutSrc, &c.stdout)
	go c.pump(c.stderrSrc, &c.stderr)
	go func() {
		err := c.sess.Wait()
		c.mu.Lock()
		if exitErr, ok := err.(*ssh.ExitError); ok {
			c.exit = exitErr.ExitStatus()
		} else if err != nil {
			c.exit = -1
		}
		c.mu.Unlock()
		close(c.done)
	}()
	return nil
}

func (c *Channel) pump(src io.Reader, dst *bytes.Buffer) {
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			c.mu.Lock()
			dst.Write(buf[:n])
			c.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Recv returns up to n buffered bytes of stdout.
func (c *Channel) Recv(n int) ([]byte, error) {
	return c.take(&c.stdout, n)
}

// RecvStderr returns up to n buffered bytes of stderr.
func (c *Channel) RecvStderr(n int) ([]byte, error) {
	return c.take(&c.stderr, n)
}

func (c *Channel) take(buf *bytes.Buffer, n int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > buf.Len() {
		n = buf.Len()
	}
	out := make([]byte, n)
	copy(out, buf.Next(n))
	return out, nil
}

// Send writes p to the command's stdin.
func (c *Channel) Send(p []byte) (int, error) {
	return c.stdin.Write(p)
}

// ExitStatusReady reports whether the command has finished.
func (c *Channel) ExitStatusReady() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// ExitStatus waits for completion and returns the exit code.
func (c *Channel) ExitStatus() int {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exit
}

// Close closes stdin and releases the session.
func (c *Channel) Close() error {
	c.stdin.Close()
	return c.sess.Close()
}

// Ensure the adapter satisfies the ports.
var (
	_ ports.Transport = (*Transport)(nil)
	_ ports.Channel   = (*Channel)(nil)
)
