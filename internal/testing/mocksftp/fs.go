package mocksftp

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/oarsail/skiff/internal/ports"
)

// FS fakes the local filesystem and path massaging. Abs deterministically
// maps every path under /local so tests can assert on exact paths, and
// file content lives in memory.
type FS struct {
	mu    sync.Mutex
	files map[string][]byte
	modes map[string]fs.FileMode
}

// NewFS creates an empty fake filesystem.
func NewFS() *FS {
	return &FS{
		files: make(map[string][]byte),
		modes: make(map[string]fs.FileMode),
	}
}

// Seed places a file with the fixed mode.
func (f *FS) Seed(path string, content []byte) *FS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
	f.modes[path] = FileMode
	return f
}

// Abs maps any path to /local/<path>.
func (f *FS) Abs(path string) (string, error) {
	return "/local/" + path, nil
}

// Base returns the last element of path.
func (f *FS) Base(path string) string {
	return filepath.Base(path)
}

// ReadFile returns seeded content.
func (f *FS) ReadFile(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("mocksftp: file %s not seeded", name)
	}
	return content, nil
}

// WriteFile stores the content and mode in memory.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = data
	f.modes[name] = perm
	return nil
}

// Stat returns fixed-mode metadata for seeded files.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.files[name]
	if !ok {
		return nil, fmt.Errorf("mocksftp: file %s not seeded", name)
	}
	return fileInfo{name: filepath.Base(name), size: int64(len(content))}, nil
}

// MkdirAll is a no-op; the in-memory map has no directories.
func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return nil
}

// --- Test inspection methods ---

// File returns the content written at a path, or nil.
func (f *FS) File(name string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[name]
}

// Mode returns the permission mode recorded for a written path.
func (f *FS) Mode(name string) (fs.FileMode, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mode, ok := f.modes[name]
	return mode, ok
}

// Ensure FS implements ports.FileSystem.
var _ ports.FileSystem = (*FS)(nil)
