// Package transfer moves files between the local machine and a remote
// host over a connection's file-transfer endpoint.
package transfer

import (
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/oarsail/skiff/internal/adapters/realfs"
	"github.com/oarsail/skiff/internal/ports"
	"github.com/oarsail/skiff/internal/remote"
)

// Transfer performs file transfers for one connection. The local side
// goes through the FileSystem port so path massaging and file contents
// are deterministic under test.
type Transfer struct {
	conn *remote.Connection
	fs   ports.FileSystem
}

// Option configures a Transfer.
type Option func(*Transfer)

// WithFileSystem overrides the local filesystem.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(t *Transfer) {
		t.fs = fs
	}
}

// New creates a Transfer for the given connection.
func New(conn *remote.Connection, opts ...Option) *Transfer {
	t := &Transfer{conn: conn, fs: realfs.New()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Result describes one completed transfer.
type Result struct {
	Local  string
	Remote string
}

// Get downloads remotePath into localPath, preserving the remote file's
// permission bits. A relative remotePath resolves against the remote
// working directory; an empty localPath derives from the remote basename.
func (t *Transfer) Get(remotePath, localPath string) (*Result, error) {
	if remotePath == "" {
		return nil, fmt.Errorf("transfer: remote path is required")
	}

	endpoint, err := t.conn.Transfer()
	if err != nil {
		return nil, err
	}

	remotePath, err = t.resolveRemote(endpoint, remotePath)
	if err != nil {
		return nil, err
	}

	info, err := endpoint.Stat(remotePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", remotePath, err)
	}

	if localPath == "" {
		localPath = t.fs.Base(remotePath)
	}
	local, err := t.fs.Abs(localPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", localPath, err)
	}

	src, err := endpoint.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", remotePath, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", remotePath, err)
	}

	if err := t.fs.WriteFile(local, data, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write %s: %w", local, err)
	}

	slog.Debug("file downloaded",
		slog.String("remote", remotePath),
		slog.String("local", local),
		slog.Int("bytes", len(data)),
	)
	return &Result{Local: local, Remote: remotePath}, nil
}

// Put uploads localPath to remotePath, carrying over the local file's
// permission bits. An empty remotePath derives from the local basename; a
// relative one resolves against the remote working directory.
func (t *Transfer) Put(localPath, remotePath string) (*Result, error) {
	if localPath == "" {
		return nil, fmt.Errorf("transfer: local path is required")
	}

	local, err := t.fs.Abs(localPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", localPath, err)
	}
	data, err := t.fs.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", local, err)
	}
	info, err := t.fs.Stat(local)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", local, err)
	}

	endpoint, err := t.conn.Transfer()
	if err != nil {
		return nil, err
	}

	if remotePath == "" {
		remotePath = t.fs.Base(local)
	}
	remotePath, err = t.resolveRemote(endpoint, remotePath)
	if err != nil {
		return nil, err
	}

	dst, err := endpoint.Create(remotePath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", remotePath, err)
	}
	if _, err := dst.Write(data); err != nil {
		dst.Close()
		return nil, fmt.Errorf("write %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", remotePath, err)
	}

	if err := endpoint.Chmod(remotePath, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("chmod %s: %w", remotePath, err)
	}

	slog.Debug("file uploaded",
		slog.String("local", local),
		slog.String("remote", remotePath),
		slog.Int("bytes", len(data)),
	)
	return &Result{Local: local, Remote: remotePath}, nil
}

// PutGlob uploads every local file matching the doublestar pattern into
// remoteDir, keeping basenames.
func (t *Transfer) PutGlob(pattern, remoteDir string) ([]*Result, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %q: no matches", pattern)
	}

	results := make([]*Result, 0, len(matches))
	for _, match := range matches {
		res, err := t.Put(match, path.Join(remoteDir, t.fs.Base(match)))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// resolveRemote makes p absolute against the remote working directory.
func (t *Transfer) resolveRemote(endpoint ports.FileTransfer, p string) (string, error) {
	if path.IsAbs(p) {
		return p, nil
	}
	wd, err := endpoint.Getwd()
	if err != nil {
		return "", fmt.Errorf("remote getwd: %w", err)
	}
	return path.Join(wd, p), nil
}
