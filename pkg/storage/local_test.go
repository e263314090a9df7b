package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocalDisk(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/a.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg"))

	exists, err := d.Exists(ctx, "products/a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := d.Open(ctx, "products/a.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	assert.Equal(t, "/uploads/products/a.jpg", d.URL("products/a.jpg"))

	require.NoError(t, d.Delete(ctx, "products/a.jpg"))
	require.NoError(t, d.Delete(ctx, "products/a.jpg"), "deleting twice is not an error")

	_, err = d.Open(ctx, "products/a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := NewLocalDisk(filepath.Join(root, "disk"), "/uploads")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape.txt", strings.NewReader("x"), ""))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(d.Root(), "escape.txt"))
	assert.NoError(t, err)
}
