package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files on disk under root. Paths returned by Save are
// slash-separated and include root, e.g. "uploads/images/<name>".
type Local struct {
	root string
}

// NewLocal returns a disk-backed store rooted at root, creating it if needed.
func NewLocal(root string) (*Local, error) {
	if root == "" {
		root = "uploads/images"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: filepath.Clean(root)}, nil
}

func (s *Local) Root() string { return s.root }

func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty file name")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return name, nil
}

// Save streams r into a temp file and renames it into place.
func (s *Local) Save(ctx context.Context, name string, r io.Reader, _ string) (string, error) {
	name, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, name)
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("file %s already exists", name)
	}
	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return filepath.ToSlash(dst), nil
}

// Remove deletes the file at path. Paths outside root are rejected.
func (s *Local) Remove(_ context.Context, path string) error {
	clean := filepath.Clean(filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, clean)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q is outside %s", path, s.root)
	}
	return os.Remove(clean)
}
