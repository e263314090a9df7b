// Package storage abstracts where uploaded files live.
//
// Two drivers are available:
//   - "local": a directory on the local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Paths are slash-separated keys relative to the disk root, e.g.
// "products/clothing-<uuid>.jpg".
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// ErrNotFound is returned when a key does not exist on the disk.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns a reader for path. The caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether path is present.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL clients use to fetch path.
	URL(path string) string
}

// FileServer is implemented by disks that can be served directly by the
// HTTP layer (the local driver).
type FileServer interface {
	FileSystem() http.FileSystem
}
