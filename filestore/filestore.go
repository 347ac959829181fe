// Package filestore keeps uploaded claim documents on local disk or in S3.
// Stored names are a random UUID plus the original extension, so concurrent
// uploads of same-named files never collide.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotExist is returned by Open when no object has the given name.
var ErrNotExist = errors.New("stored file does not exist")

// NewName returns a collision-free storage name keeping the extension.
func NewName(ext string) string {
	return uuid.NewString() + strings.ToLower(ext)
}

// Local stores files in a single directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string { return l.dir }

// Save writes r under a fresh name through a temp file and an atomic rename.
func (l *Local) Save(_ context.Context, r io.Reader, ext string) (string, error) {
	name := NewName(ext)
	fullPath := filepath.Join(l.dir, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("fsync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return name, nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if name != filepath.Base(name) {
		return nil, ErrNotExist
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return f, err
}

func (l *Local) Delete(_ context.Context, name string) error {
	if name != filepath.Base(name) {
		return ErrNotExist
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
