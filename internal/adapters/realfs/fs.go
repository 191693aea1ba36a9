// Package realfs provides a real implementation of the FileSystem port using
// the os and path/filepath packages.
package realfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oarsail/skiff/internal/ports"
)

// FS implements ports.FileSystem using the standard library.
type FS struct{}

// New returns a new real FileSystem.
func New() *FS {
	return &FS{}
}

// Abs returns an absolute representation of path.
func (f *FS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Base returns the last element of path.
func (f *FS) Base(path string) string {
	return filepath.Base(path)
}

// ReadFile reads the named file and returns its contents.
func (f *FS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to the named file, creating it if necessary.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Stat returns file info for the named file.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory and all parent directories.
func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Ensure FS implements ports.FileSystem.
var _ ports.FileSystem = (*FS)(nil)
