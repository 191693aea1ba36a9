// Package mocksftp fakes the file-transfer endpoint and the local
// filesystem-query facility so the transfer feature can be tested without
// a connection or real files. Unlike mockremote this is pure static
// stubbing: fixed remote working directory, fixed permission mode, and
// in-memory file content, with no post-run verification step.
package mocksftp

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sync"
	"time"
)

const (
	// RemoteWD is the fixed remote working directory reported by Getwd.
	RemoteWD = "/remote"

	// FileMode is the fixed permission mode reported for every path.
	FileMode fs.FileMode = 0o644
)

// Endpoint is a fake ports.FileTransfer backed by an in-memory file map.
type Endpoint struct {
	mu      sync.Mutex
	files   map[string][]byte
	written map[string][]byte
	chmods  map[string]fs.FileMode
	closed  bool
}

// NewEndpoint creates an empty fake endpoint.
func NewEndpoint() *Endpoint {
	return &Endpoint{
		files:   make(map[string][]byte),
		written: make(map[string][]byte),
		chmods:  make(map[string]fs.FileMode),
	}
}

// Seed places content at a remote path so Open and Stat can find it.
func (e *Endpoint) Seed(path string, content []byte) *Endpoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files[path] = content
	return e
}

// Getwd returns the fixed remote working directory.
func (e *Endpoint) Getwd() (string, error) {
	return RemoteWD, nil
}

// Stat returns metadata with the fixed mode for any path, sized from
// seeded content when present.
func (e *Endpoint) Stat(p string) (fs.FileInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fileInfo{name: path.Base(p), size: int64(len(e.files[p]))}, nil
}

// Open returns a reader over the seeded content for the path. Unseeded
// paths read as empty.
func (e *Endpoint) Open(p string) (io.ReadCloser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return io.NopCloser(bytes.NewReader(e.files[p])), nil
}

// Create returns a writer capturing everything written for the path.
func (e *Endpoint) Create(p string) (io.WriteCloser, error) {
	return &captureWriter{endpoint: e, path: p}, nil
}

// Chmod records the requested mode for the path.
func (e *Endpoint) Chmod(p string, mode fs.FileMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.chmods[p] = mode
	return nil
}

// Close marks the endpoint closed.
func (e *Endpoint) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// --- Test inspection methods ---

// Written returns the bytes captured for a path created via Create.
func (e *Endpoint) Written(p string) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.written[p]
}

// ChmodMode returns the mode recorded for a path, or false if Chmod was
// never called for it.
func (e *Endpoint) ChmodMode(p string) (fs.FileMode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mode, ok := e.chmods[p]
	return mode, ok
}

// WasClosed returns true if Close was called.
func (e *Endpoint) WasClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// captureWriter accumulates writes and commits them on Close.
type captureWriter struct {
	endpoint *Endpoint
	path     string
	buf      bytes.Buffer
}

func (w *captureWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *captureWriter) Close() error {
	w.endpoint.mu.Lock()
	defer w.endpoint.mu.Unlock()
	w.endpoint.written[w.path] = w.buf.Bytes()
	return nil
}

// fileInfo is the fixed-mode metadata returned by Stat.
type fileInfo struct {
	name string
	size int64
}

func (f fileInfo) Name() string       { return f.name }
func (f fileInfo) Size() int64        { return f.size }
func (f fileInfo) Mode() fs.FileMode  { return FileMode }
func (f fileInfo) ModTime() time.Time { return time.Time{} }
func (f fileInfo) IsDir() bool        { return false }
func (f fileInfo) Sys() any           { return nil }
