package storage

import (
	"context"
	"fmt"

	"github.com/localnerve/excel-analyzer/internal/config"
)

// FromConfig builds the store selected by STORAGE_DRIVER
func FromConfig(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		store, err := NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.StoragePublicURL,
		})
		if err != nil {
			return nil, err
		}
		if cfg.S3CreateBucket {
			if err := store.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		return store, nil
	case "local":
		store, err := NewLocalStore(cfg.StorageLocalDir, cfg.StoragePublicURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
}
