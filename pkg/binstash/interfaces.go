package binstash

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for blob storage backends. A backend
// knows nothing about the catalog. Upload must be atomic from the
// caller's point of view: either the object is fully durable under the
// key or the call fails with no partial object visible to readers.
type BlobStore interface {
	// Upload stores the content under objectKey.
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download returns the content stored under objectKey.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a key that does not exist
	// returns ErrBlobNotFound on backends that can detect it.
	Delete(ctx context.Context, objectKey string) error

	// Locator returns the fully-qualified path (container plus key)
	// for an object. It does not touch the backend.
	Locator(objectKey string) string

	// PresignedGetURL returns a time-limited URL for downloading the
	// object, with downloadFilename used for content disposition when
	// the backend supports it.
	PresignedGetURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)
}

// Catalog defines the interface for asset metadata persistence.
type Catalog interface {
	// CreateAsset inserts a row and assigns asset.ID. IDs are
	// monotonically increasing and never reused.
	CreateAsset(ctx context.Context, asset *Asset) error

	// GetAsset returns the row for id, or ErrAssetNotFound.
	GetAsset(ctx context.Context, id int64) (*Asset, error)

	// DeleteAsset removes the row permanently (no tombstone), or
	// returns ErrAssetNotFound.
	DeleteAsset(ctx context.Context, id int64) error

	// RecordHealthCheck writes one audit row with the given timestamp.
	RecordHealthCheck(ctx context.Context, at time.Time) error
}
