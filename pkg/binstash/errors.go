package binstash

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrAssetNotFound indicates no catalog row exists for the given id.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrBlobNotFound indicates the blob store has no object under a key.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrInvalidRequest indicates a request with a bad shape.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUploadFailed indicates a create failed on a single store with
	// no inconsistency introduced.
	ErrUploadFailed = errors.New("upload failed")

	// ErrDeleteFailed indicates a delete failed on the blob store before
	// any catalog mutation.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrInconsistent indicates the blob store and the catalog disagree
	// after a partial failure. Operations reporting it are never retried
	// automatically; reconciliation is an operator action.
	ErrInconsistent = errors.New("stores inconsistent")
)

// StorageError represents a failed blob store operation.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CatalogError represents a failed catalog operation.
type CatalogError struct {
	AssetID int64
	Op      string
	Err     error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog operation %s failed for asset %d: %v", e.Op, e.AssetID, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// InconsistencyError reports that a create or delete left the two stores
// disagreeing: either an orphaned blob without a catalog row, or a stale
// row whose blob is already gone. Cause is the failure that opened the
// window; CompensationErr, when set, is the failed compensating action.
type InconsistencyError struct {
	Op              string
	AssetID         int64
	StorageKey      string
	Cause           error
	CompensationErr error
}

func (e *InconsistencyError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("%s left stores inconsistent for key %s: %v (compensation failed: %v)",
			e.Op, e.StorageKey, e.Cause, e.CompensationErr)
	}
	return fmt.Sprintf("%s left stores inconsistent for key %s: %v", e.Op, e.StorageKey, e.Cause)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInconsistent
}
