package binstash

import (
	"io"
	"time"
)

// Asset is one stored binary together with the catalog row describing it.
//
// ID is assigned by the catalog on insert and never reused. StorageKey is
// the name the blob is stored under in the blob store. StoragePath is the
// fully-qualified locator (container plus key) handed back to clients.
// All fields are immutable once the asset is created; there is no update
// operation.
type Asset struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UploadDate returns the upload timestamp truncated to calendar-day
// granularity, formatted as YYYY-MM-DD.
func (a *Asset) UploadDate() string {
	return a.UploadedAt.UTC().Format("2006-01-02")
}

// CreateAssetRequest contains the parameters for storing a new asset.
type CreateAssetRequest struct {
	// FileName is the client-supplied original name. It seeds the
	// storage key and is persisted alongside the record.
	FileName string

	// Data is the asset content. It is consumed exactly once.
	Data io.Reader
}
