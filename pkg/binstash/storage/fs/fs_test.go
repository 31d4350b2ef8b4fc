package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binstash/binstash/pkg/binstash"
)

func newBackend(t *testing.T) (*Backend, string) {
	t.Helper()

	dir := t.TempDir()
	backend, err := New(Config{BaseDir: dir})
	require.NoError(t, err)
	return backend, dir
}

func TestNewRequiresBaseDir(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestUploadAndDownload(t *testing.T) {
	backend, dir := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k1.txt", strings.NewReader("hello")))

	// The object is durable on disk under the key.
	_, err := os.Stat(filepath.Join(dir, "k1.txt"))
	require.NoError(t, err)

	rc, err := backend.Download(ctx, "k1.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestUploadNestedKey(t *testing.T) {
	backend, _ := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "2024/03/k1.txt", strings.NewReader("nested")))

	rc, err := backend.Download(ctx, "2024/03/k1.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))
}

func TestUploadLeavesNoPartialObject(t *testing.T) {
	backend, dir := newBackend(t)
	ctx := context.Background()

	// A reader that fails midway must not leave anything under the key.
	failing := io.MultiReader(strings.NewReader("partial"), errReader{})
	err := backend.Upload(ctx, "k1.txt", failing)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "k1.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDelete(t *testing.T) {
	backend, _ := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k1.txt", strings.NewReader("hello")))
	require.NoError(t, backend.Delete(ctx, "k1.txt"))

	assert.ErrorIs(t, backend.Delete(ctx, "k1.txt"), binstash.ErrBlobNotFound)
	_, err := backend.Download(ctx, "k1.txt")
	assert.ErrorIs(t, err, binstash.ErrBlobNotFound)
}

func TestLocator(t *testing.T) {
	backend, dir := newBackend(t)

	assert.Equal(t, dir+"/k1.txt", backend.Locator("k1.txt"))
}

func TestPresignedGetURL(t *testing.T) {
	ctx := context.Background()

	backend, _ := newBackend(t)
	_, err := backend.PresignedGetURL(ctx, "k1.txt", "")
	assert.Error(t, err)

	withPrefix, err := New(Config{BaseDir: t.TempDir(), URLPrefix: "http://localhost:8080/files"})
	require.NoError(t, err)

	url, err := withPrefix.PresignedGetURL(ctx, "k1.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/k1.txt", url)
}
