package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores files as objects in a Google Cloud Storage bucket under prefix.
// Paths returned by Save are object names.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func NewGCS(client *storage.Client, bucket, prefix string) (*GCS, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs not configured")
	}
	return &GCS{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *GCS) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	name, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	objectPath := path.Join(s.prefix, name)
	wc := s.client.Bucket(s.bucket).Object(objectPath).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return objectPath, nil
}

func (s *GCS) Remove(ctx context.Context, objectPath string) error {
	err := s.client.Bucket(s.bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs object %s: %w", objectPath, fs.ErrNotExist)
	}
	return err
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func (s *GCS) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectPath)
}
