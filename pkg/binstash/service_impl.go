package binstash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/binstash/binstash/pkg/binstash/keygen"
)

const defaultStepTimeout = 10 * time.Second

// service implements the Service interface. Create and Delete run as a
// fixed-order saga: the blob store is treated as the harder side to
// compensate, so blob success gates every catalog mutation. The worst
// create outcome is an orphaned blob, never a row without an object.
type service struct {
	catalog     Catalog
	blobs       BlobStore
	keys        keygen.Generator
	stepTimeout time.Duration
}

// stepContext bounds a single store call. The saga holds no lock across
// its two steps; per-record uniqueness of id and storage key makes
// concurrent operations on different assets independent.
func (s *service) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.stepTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.stepTimeout)
}

func (s *service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*Asset, error) {
	if req.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidRequest)
	}
	if req.Data == nil {
		return nil, fmt.Errorf("%w: file data is required", ErrInvalidRequest)
	}

	key := s.keys.GenerateKey(req.FileName)

	// Step 1: blob store. A failure here leaves no partial state.
	uploadCtx, cancel := s.stepContext(ctx)
	err := s.blobs.Upload(uploadCtx, key, req.Data)
	cancel()
	if err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: fmt.Errorf("%w: %w", ErrUploadFailed, err)}
	}

	asset := &Asset{
		FileName:    req.FileName,
		StorageKey:  key,
		StoragePath: s.blobs.Locator(key),
		UploadedAt:  time.Now().UTC(),
	}

	// Step 2: catalog insert. The blob is already durable, so the insert
	// runs detached from request cancellation rather than being aborted
	// mid-sequence.
	insertCtx, cancel := s.stepContext(context.WithoutCancel(ctx))
	err = s.catalog.CreateAsset(insertCtx, asset)
	cancel()
	if err == nil {
		return asset, nil
	}

	// The blob is orphaned. Compensate synchronously with a best-effort
	// delete; if that also fails the stores disagree and the caller gets
	// a distinct inconsistency signal, never a silent success.
	compCtx, cancel := s.stepContext(context.WithoutCancel(ctx))
	compErr := s.blobs.Delete(compCtx, key)
	cancel()
	if compErr != nil {
		return nil, &InconsistencyError{Op: "create", StorageKey: key, Cause: err, CompensationErr: compErr}
	}

	return nil, &CatalogError{Op: "insert", Err: fmt.Errorf("%w: %w", ErrUploadFailed, err)}
}

func (s *service) GetAsset(ctx context.Context, id int64) (*Asset, error) {
	lookupCtx, cancel := s.stepContext(ctx)
	defer cancel()

	asset, err := s.catalog.GetAsset(lookupCtx, id)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return nil, err
		}
		return nil, &CatalogError{AssetID: id, Op: "get", Err: err}
	}
	return asset, nil
}

func (s *service) DeleteAsset(ctx context.Context, id int64) error {
	lookupCtx, cancel := s.stepContext(ctx)
	asset, err := s.catalog.GetAsset(lookupCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return err
		}
		return &CatalogError{AssetID: id, Op: "get", Err: err}
	}

	// Step 1: blob store. An object delete cannot be undone, so a
	// failure aborts before the catalog is touched and the asset stays
	// fully live.
	deleteCtx, cancel := s.stepContext(ctx)
	err = s.blobs.Delete(deleteCtx, asset.StorageKey)
	cancel()
	if err != nil && !errors.Is(err, ErrBlobNotFound) {
		return &StorageError{Key: asset.StorageKey, Op: "delete", Err: fmt.Errorf("%w: %w", ErrDeleteFailed, err)}
	}

	// Step 2: catalog delete, detached from request cancellation. If it
	// fails the row is stale: the blob is unrecoverable, so the operator
	// purges the row rather than the service retrying. A row already
	// removed by a concurrent delete of the same id means the stores
	// agree, not that they diverged.
	rowCtx, cancel := s.stepContext(context.WithoutCancel(ctx))
	err = s.catalog.DeleteAsset(rowCtx, id)
	cancel()
	if err != nil && !errors.Is(err, ErrAssetNotFound) {
		return &InconsistencyError{Op: "delete", AssetID: id, StorageKey: asset.StorageKey, Cause: err}
	}

	return nil
}

func (s *service) DownloadAsset(ctx context.Context, id int64) (*Asset, io.ReadCloser, error) {
	asset, err := s.GetAsset(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Download(ctx, asset.StorageKey)
	if err != nil {
		return nil, nil, &StorageError{Key: asset.StorageKey, Op: "download", Err: err}
	}
	return asset, rc, nil
}

func (s *service) GetDownloadURL(ctx context.Context, id int64) (string, error) {
	asset, err := s.GetAsset(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.blobs.PresignedGetURL(ctx, asset.StorageKey, asset.FileName)
	if err != nil {
		return "", &StorageError{Key: asset.StorageKey, Op: "presign", Err: err}
	}
	return url, nil
}

func (s *service) HealthCheck(ctx context.Context) error {
	auditCtx, cancel := s.stepContext(ctx)
	defer cancel()

	if err := s.catalog.RecordHealthCheck(auditCtx, time.Now().UTC()); err != nil {
		return &CatalogError{Op: "health", Err: err}
	}
	return nil
}
