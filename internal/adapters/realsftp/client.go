// Package realsftp implements the FileTransfer port over pkg/sftp.
package realsftp

import (
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/oarsail/skiff/internal/ports"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Client wraps an SFTP client for file transfer operations on an existing
// SSH connection.
type Client struct {
	mu     sync.Mutex
	sftp   *sftp.Client
	closed bool
}

// New opens the SFTP subsystem on the given SSH connection.
func New(conn *ssh.Client) (*Client, error) {
	c, err := sftp.NewClient(conn)
	if err != nil {
		return nil, fmt.Errorf("create sftp client: %w", err)
	}
	return &Client{sftp: c}, nil
}

// Getwd returns the current remote working directory.
func (c *Client) Getwd() (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	return c.sftp.Getwd()
}

// Stat returns file information for the given remote path.
func (c *Client) Stat(path string) (fs.FileInfo, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.sftp.Stat(path)
}

// Open opens a remote file for reading.
func (c *Client) Open(path string) (io.ReadCloser, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.sftp.Open(path)
}

// Create opens a remote file for writing, truncating any existing file.
func (c *Client) Create(path string) (io.WriteCloser, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.sftp.Create(path)
}

// Chmod sets the permission bits of a remote file.
func (c *Client) Chmod(path string, mode fs.FileMode) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.sftp.Chmod(path, mode)
}

// Close closes the SFTP endpoint.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.sftp.Close()
}

func (c *Client) check() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("sftp client is closed")
	}
	return nil
}

// Ensure Client implements ports.FileTransfer.
var _ ports.FileTransfer = (*Client)(nil)
