package archive

import (
	"context"
	"fmt"

	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
)

// NewArchiveFromConfig creates an Archive for the configured type. An empty
// type disables snapshots and returns nil.
func NewArchiveFromConfig(ctx context.Context, cfg config.ArchiveConfig) (catalog.Archive, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "memory":
		return NewMemoryArchive(), nil
	case "filesystem":
		if cfg.FSArchiveRoot == "" {
			return nil, fmt.Errorf("filesystem archive requires fs_archive_root to be set")
		}
		return NewFileSystemArchive(cfg.FSArchiveRoot)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 archive requires s3_bucket to be set")
		}
		return NewS3Archive(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
}
