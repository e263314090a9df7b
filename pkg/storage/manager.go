package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/wardrobe/config"
)

// FromConfig builds the disk selected by STORAGE_DISK.
func FromConfig(ctx context.Context) (Disk, error) {
	switch driver := config.StorageDefault(); driver {
	case "local":
		return NewLocalDisk(config.UploadDir(), config.UploadURL())
	case "s3":
		return NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unsupported STORAGE_DISK %q (supported: local, s3)", driver)
	}
}
