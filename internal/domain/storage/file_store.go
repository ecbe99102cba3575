package storage

import (
	"context"
	"io"
)

// FileStore persists uploaded binaries. Save returns the path that Remove accepts
// and that entities reference. Remove wraps fs.ErrNotExist when nothing is stored at path.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}
