package services

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/wardrobe/pkg/logger"
	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
	"github.com/shashiranjanraj/wardrobe/pkg/storage"
	"github.com/shashiranjanraj/wardrobe/pkg/workerpool"
)

// Upload is an image received with a form.
type Upload struct {
	Filename string
	Body     io.Reader
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore keeps product images on a storage.Disk under "products/".
type ImageStore struct {
	disk     storage.Disk
	maxBytes int64
	cleanup  *workerpool.Pool
}

// NewImageStore returns a store that rejects images larger than maxBytes.
func NewImageStore(disk storage.Disk, maxBytes int64) *ImageStore {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &ImageStore{disk: disk, maxBytes: maxBytes}
}

// WithCleanup moves removals of superseded images onto pool. Without a
// pool they run before the request returns.
func (s *ImageStore) WithCleanup(pool *workerpool.Pool) *ImageStore {
	s.cleanup = pool
	return s
}

// Save validates u by content sniffing and writes it under a fresh key.
// A nil upload saves nothing and returns "".
func (s *ImageStore) Save(ctx context.Context, u *Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", nil
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, s.maxBytes+1))
	if err != nil {
		return "", storageErr("Failed to read image", err)
	}
	if len(data) == 0 || int64(len(data)) > s.maxBytes {
		return "", ErrInvalidImage
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrInvalidImage
	}

	key := "products/clothing-" + uuid.NewString() + ext
	err = s.disk.Put(ctx, key, bytes.NewReader(data), contentType)
	metrics.RecordImage("store", err)
	if err != nil {
		return "", storageErr("Failed to store image", err)
	}
	return key, nil
}

// Remove deletes key. Failures are logged and otherwise ignored.
func (s *ImageStore) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	// The job may outlive the request.
	ctx = context.WithoutCancel(ctx)
	s.cleanup.Do(func() {
		err := s.disk.Delete(ctx, key)
		metrics.RecordImage("remove", err)
		if err != nil {
			logger.WithCtx(ctx).Warn("image: remove failed", "key", key, "error", err)
		}
	})
}

// URL is the public address of key, or "" when there is no image.
func (s *ImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.disk.URL(key)
}
