// Package realssh implements the connection ports on top of x/crypto/ssh.
package realssh

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/oarsail/skiff/internal/adapters/realsftp"
	"github.com/oarsail/skiff/internal/ports"
	"golang.org/x/crypto/ssh"
)

// DialFunc establishes the underlying SSH connection. Injected for testing.
type DialFunc func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error)

// Options configures the real SSH client.
type Options struct {
	Auth            []ssh.AuthMethod
	HostKeyCallback ssh.HostKeyCallback
	Timeout         time.Duration
	Dial            DialFunc
}

// DefaultOptions returns default client options.
func DefaultOptions() Options {
	return Options{
		Timeout:         30 * time.Second,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
}

// Client implements ports.Client over a real SSH connection.
type Client struct {
	mu        sync.Mutex
	opts      Options
	conn      *ssh.Client
	transport *Transport
}

// NewFactory returns a ports.ClientFactory producing real SSH clients.
func NewFactory(opts Options) ports.ClientFactory {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HostKeyCallback == nil {
		opts.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	}
	if opts.Dial == nil {
		opts.Dial = ssh.Dial
	}
	return func() (ports.Client, error) {
		if len(opts.Auth) == 0 {
			return nil, fmt.Errorf("realssh: at least one auth method is required")
		}
		return &Client{opts: opts}, nil
	}
}

// Connect establishes the SSH connection to user@host:port.
func (c *Client) Connect(host, user string, port int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil // Already connected
	}
	if host == "" {
		return fmt.Errorf("realssh: host is required")
	}
	if user == "" {
		return fmt.Errorf("realssh: user is required")
	}
	if port == 0 {
		port = 22
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            c.opts.Auth,
		HostKeyCallback: c.opts.HostKeyCallback,
		Timeout:         c.opts.Timeout,
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := c.opts.Dial("tcp", addr, config)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	c.conn = conn
	return nil
}

// Transport returns the channel multiplexer for this connection.
func (c *Client) Transport() (ports.Transport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("realssh: not connected")
	}
	if c.transport == nil {
		c.transport = &Transport{conn: c.conn}
	}
	return c.transport, nil
}

// OpenTransfer opens the SFTP endpoint on this connection.
func (c *Client) OpenTransfer() (ports.FileTransfer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("realssh: not connected")
	}
	return realsftp.New(c.conn)
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.transport = nil
	return err
}

// Ensure Client implements ports.Client.
var _ ports.Client = (*Client)(nil)
