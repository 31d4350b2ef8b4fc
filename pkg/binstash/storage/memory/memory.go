// Package memory provides an in-memory blob store for tests and
// development.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/binstash/binstash/pkg/binstash"
)

const containerName = "memory"

// Backend is an in-memory implementation of the binstash.BlobStore
// interface.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory storage backend.
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	return nil
}

func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, binstash.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return binstash.ErrBlobNotFound
	}

	delete(b.objects, objectKey)
	return nil
}

func (b *Backend) Locator(objectKey string) string {
	return fmt.Sprintf("%s/%s", containerName, objectKey)
}

// PresignedGetURL is not meaningful for the in-memory backend; it
// returns the locator so callers still get a stable reference.
func (b *Backend) PresignedGetURL(ctx context.Context, objectKey string, downloadFilename string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, exists := b.objects[objectKey]; !exists {
		return "", binstash.ErrBlobNotFound
	}
	return b.Locator(objectKey), nil
}

// Exists reports whether an object is stored under the key. Test helper.
func (b *Backend) Exists(objectKey string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.objects[objectKey]
	return exists
}
