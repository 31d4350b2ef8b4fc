// Package fs provides a filesystem blob store.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/binstash/binstash/pkg/binstash"
)

// Config options for the filesystem backend.
type Config struct {
	BaseDir   string // Base directory for storing objects
	URLPrefix string // Optional URL prefix for presigned-style URLs
}

// Backend is a filesystem implementation of the binstash.BlobStore
// interface. The base directory acts as the container.
type Backend struct {
	baseDir   string
	urlPrefix string
}

// New creates a new filesystem storage backend, creating the base
// directory if needed.
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir:   config.BaseDir,
		urlPrefix: config.URLPrefix,
	}, nil
}

// Upload writes to a temp file first and renames into place, so a
// partially written object is never visible under the key.
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close object: %w", err)
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize object: %w", err)
	}

	return nil
}

func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(b.baseDir, objectKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, binstash.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, nil
}

func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	err := os.Remove(filepath.Join(b.baseDir, objectKey))
	if err != nil {
		if os.IsNotExist(err) {
			return binstash.ErrBlobNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (b *Backend) Locator(objectKey string) string {
	return fmt.Sprintf("%s/%s", b.baseDir, objectKey)
}

func (b *Backend) PresignedGetURL(ctx context.Context, objectKey string, downloadFilename string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("direct download required for filesystem backend")
	}
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}
