// Package remote provides programmatic command execution on remote hosts
// over an injected connection transport.
package remote

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/oarsail/skiff/internal/adapters/realclock"
	"github.com/oarsail/skiff/internal/ports"
)

// Connection represents one remote shell connection target. The actual
// client is created lazily from the injected factory on first use, so a
// Connection can be declared cheaply and never dialed.
type Connection struct {
	Host string
	User string
	Port int

	mu        sync.Mutex
	factory   ports.ClientFactory
	clock     ports.Clock
	client    ports.Client
	transport ports.Transport
	xfer      ports.FileTransfer
}

// Option configures a Connection.
type Option func(*Connection)

// WithFactory sets the client factory used to create the connection.
func WithFactory(f ports.ClientFactory) Option {
	return func(c *Connection) {
		c.factory = f
	}
}

// WithClock sets the clock used for poll sleeps.
func WithClock(clk ports.Clock) Option {
	return func(c *Connection) {
		c.clock = clk
	}
}

// New creates a Connection from a target of the form [user@]host[:port].
func New(target string, opts ...Option) (*Connection, error) {
	host, user, port, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	c := &Connection{
		Host:  host,
		User:  user,
		Port:  port,
		clock: realclock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.factory == nil {
		return nil, fmt.Errorf("remote: no client factory configured for %q", target)
	}
	return c, nil
}

// ParseTarget splits [user@]host[:port] into its parts. Port 0 means
// unspecified.
func ParseTarget(target string) (host, user string, port int, err error) {
	rest := target
	if i := strings.Index(rest, "@"); i >= 0 {
		user = rest[:i]
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		p, convErr := strconv.Atoi(rest[i+1:])
		if convErr != nil || p <= 0 || p > 65535 {
			return "", "", 0, fmt.Errorf("remote: invalid port in target %q", target)
		}
		port = p
		rest = rest[:i]
	}
	if rest == "" {
		return "", "", 0, fmt.Errorf("remote: empty host in target %q", target)
	}
	return rest, user, port, nil
}

// Open dials the connection if it is not open yet. The transport accessor
// is invoked once and cached for the connection's lifetime.
func (c *Connection) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	client, err := c.factory()
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	if err := client.Connect(c.Host, c.User, c.Port); err != nil {
		return fmt.Errorf("connect %s: %w", c.Addr(), err)
	}
	transport, err := client.Transport()
	if err != nil {
		return fmt.Errorf("transport %s: %w", c.Addr(), err)
	}

	c.client = client
	c.transport = transport
	return nil
}

// IsOpen reports whether the connection has been dialed.
func (c *Connection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// Addr returns the host:port form of the target, with port 22 implied.
func (c *Connection) Addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Transfer returns the file-transfer endpoint for this connection,
// opening it on first use.
func (c *Connection) Transfer() (ports.FileTransfer, error) {
	if err := c.Open(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.xfer == nil {
		xfer, err := c.client.OpenTransfer()
		if err != nil {
			return nil, fmt.Errorf("open transfer %s: %w", c.Addr(), err)
		}
		c.xfer = xfer
	}
	return c.xfer, nil
}

// Close closes the connection and any open transfer endpoint.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	if c.xfer != nil {
		_ = c.xfer.Close()
		c.xfer = nil
	}
	err := c.client.Close()
	c.client = nil
	c.transport = nil
	return err
}
