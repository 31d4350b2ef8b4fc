package binstash

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/binstash/binstash/pkg/binstash/keygen"
)

// Service defines the main interface for asset management. It is
// stateless and safe for concurrent use; all state lives in the two
// injected stores.
type Service interface {
	// CreateAsset stores the content in the blob store and inserts the
	// catalog row, in that order.
	CreateAsset(ctx context.Context, req CreateAssetRequest) (*Asset, error)

	// GetAsset looks up an asset by catalog id. It does not consult the
	// blob store.
	GetAsset(ctx context.Context, id int64) (*Asset, error)

	// DeleteAsset removes the blob and then the catalog row.
	DeleteAsset(ctx context.Context, id int64) error

	// DownloadAsset returns the asset record and a reader over its
	// content. The caller closes the reader.
	DownloadAsset(ctx context.Context, id int64) (*Asset, io.ReadCloser, error)

	// GetDownloadURL returns a time-limited URL for the asset content,
	// on backends that support it.
	GetDownloadURL(ctx context.Context, id int64) (string, error)

	// HealthCheck writes one audit row with the current timestamp.
	HealthCheck(ctx context.Context) error
}

// Option represents a functional option for configuring the service.
type Option func(*service)

// WithCatalog sets the metadata catalog for the service.
func WithCatalog(catalog Catalog) Option {
	return func(s *service) {
		s.catalog = catalog
	}
}

// WithBlobStore sets the blob storage backend for the service.
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithKeyGenerator sets the storage-key generation strategy.
func WithKeyGenerator(gen keygen.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithStepTimeout bounds each individual store call within an operation.
// A step that exceeds the timeout is treated as a failure of that step.
func WithStepTimeout(d time.Duration) Option {
	return func(s *service) {
		s.stepTimeout = d
	}
}

// New creates a new service instance with the given options. A catalog
// and a blob store are required.
func New(options ...Option) (Service, error) {
	s := &service{
		stepTimeout: defaultStepTimeout,
	}

	for _, option := range options {
		option(s)
	}

	if s.catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.keys == nil {
		s.keys = keygen.NewTimestampGenerator()
	}

	return s, nil
}
