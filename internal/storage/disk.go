package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps media under a root directory on local disk, served by the
// site under /media/. Writes go through a temp file and rename so a crashed
// upload never leaves a half-written object at its final path.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Save(_ context.Context, path string, r io.Reader) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("save media %s: object already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "upload-*")
	if err != nil {
		return fmt.Errorf("create media temp file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write media %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close media %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store media %s: %w", path, err)
	}
	if err := os.Chmod(target, 0o644); err != nil {
		return fmt.Errorf("chmod media %s: %w", path, err)
	}
	return nil
}

func (s *DiskStore) Remove(_ context.Context, path string) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media %s: %w", path, err)
	}
	return nil
}

func (s *DiskStore) PublicURL(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/media/" + strings.Join(parts, "/")
}

// resolve maps an object path to a filesystem path, rejecting anything that
// would escape the root.
func (s *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || clean == string(filepath.Separator) || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// Root is the directory media is served from.
func (s *DiskStore) Root() string { return s.root }
