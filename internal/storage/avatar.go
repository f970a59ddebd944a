// Package storage keeps uploaded avatar images on the local filesystem under
// a single public directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Path for names that do not resolve to a stored
// file.
var ErrNotFound = errors.New("image not found")

// AvatarStore writes files as <uuid><ext> inside Dir.
type AvatarStore struct {
	dir string
}

// NewAvatarStore creates dir if needed.
func NewAvatarStore(dir string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &AvatarStore{dir: dir}, nil
}

// Save copies src into a new file named after a random UUID, keeping the
// lower-cased extension of originalName.  A partial file is removed on
// failure.
func (s *AvatarStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// Path resolves a public file name to its location on disk.  The name is
// reduced to its base name first, so "../x" cannot escape Dir.
func (s *AvatarStore) Path(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || base == "" {
		return "", ErrNotFound
	}
	p := filepath.Join(s.dir, base)
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return "", ErrNotFound
	}
	return p, nil
}
