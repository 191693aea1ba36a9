package ports

import "io/fs"

// FileSystem abstracts the local filesystem and path massaging used by the
// transfer feature, so tests get deterministic paths.
type FileSystem interface {
	// Abs returns an absolute representation of path.
	Abs(path string) (string, error)

	// Base returns the last element of path.
	Base(path string) string

	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to the named file with the given permissions.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Stat returns file info for the named file.
	Stat(name string) (fs.FileInfo, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm fs.FileMode) error
}
