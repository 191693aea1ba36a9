package ports

import (
	"io"
	"io/fs"
)

// FileTransfer is the SFTP-like endpoint for moving files over an
// established connection.
type FileTransfer interface {
	// Getwd returns the remote working directory used to resolve
	// relative remote paths.
	Getwd() (string, error)

	// Stat returns metadata for a remote path.
	Stat(path string) (fs.FileInfo, error)

	// Open opens a remote file for reading.
	Open(path string) (io.ReadCloser, error)

	// Create opens a remote file for writing, creating it if needed.
	Create(path string) (io.WriteCloser, error)

	// Chmod sets the permission bits of a remote file.
	Chmod(path string, mode fs.FileMode) error

	// Close releases the endpoint.
	Close() error
}
