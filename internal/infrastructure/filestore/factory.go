// Package filestore provides storage.FileStore drivers for uploaded images.
package filestore

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-places-api/config"
	"github.com/oksasatya/go-places-api/internal/domain/storage"
)

const (
	DriverLocal = "local"
	DriverGCS   = "gcs"
	DriverS3    = "s3"
)

// Open selects a FileStore implementation from configuration.
// The returned closer releases client resources and is never nil.
func Open(ctx context.Context, cfg *config.Config) (storage.FileStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.FileDriver {
	case "", DriverLocal:
		s, err := NewLocal(cfg.UploadDir)
		return s, noop, err
	case DriverGCS:
		client, err := NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, noop, err
		}
		s, err := NewGCS(client, cfg.GCSBucket, cfg.UploadPrefix)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return s, client.Close, nil
	case DriverS3:
		s, err := NewS3(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.UploadPrefix,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		return s, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown file driver %s", cfg.FileDriver)
	}
}

var (
	_ storage.FileStore = (*Local)(nil)
	_ storage.FileStore = (*GCS)(nil)
	_ storage.FileStore = (*S3)(nil)
)
