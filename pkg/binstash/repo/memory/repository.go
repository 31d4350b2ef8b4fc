// Package memory provides an in-memory catalog for tests and
// development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/binstash/binstash/pkg/binstash"
)

// Repository implements binstash.Catalog using in-memory storage. The
// id counter only moves forward, so ids are never reused even after a
// delete.
type Repository struct {
	mu           sync.RWMutex
	assets       map[int64]*binstash.Asset
	nextID       int64
	healthChecks []time.Time
}

// New creates a new in-memory catalog.
func New() *Repository {
	return &Repository{
		assets: make(map[int64]*binstash.Asset),
		nextID: 1,
	}
}

func (r *Repository) CreateAsset(ctx context.Context, asset *binstash.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset.ID = r.nextID
	r.nextID++

	// Store a copy to avoid external modifications
	assetCopy := *asset
	r.assets[asset.ID] = &assetCopy

	return nil
}

func (r *Repository) GetAsset(ctx context.Context, id int64) (*binstash.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, binstash.ErrAssetNotFound
	}

	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return binstash.ErrAssetNotFound
	}

	delete(r.assets, id)
	return nil
}

func (r *Repository) RecordHealthCheck(ctx context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.healthChecks = append(r.healthChecks, at)
	return nil
}

// HealthCheckCount returns the number of audit rows written. Test helper.
func (r *Repository) HealthCheckCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.healthChecks)
}
