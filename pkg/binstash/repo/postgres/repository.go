// Package postgres provides a PostgreSQL catalog backed by pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binstash/binstash/pkg/binstash"
)

// DBTX is satisfied by both a pgx connection pool and a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements binstash.Catalog using PostgreSQL.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL catalog.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL catalog from a connection pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("storage key already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateAsset(ctx context.Context, asset *binstash.Asset) error {
	query := `
		INSERT INTO assets (file_name, storage_key, storage_path, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		asset.FileName, asset.StorageKey, asset.StoragePath, asset.UploadedAt,
	).Scan(&asset.ID)
	if err != nil {
		return r.handlePostgresError("create asset", err)
	}

	return nil
}

func (r *Repository) GetAsset(ctx context.Context, id int64) (*binstash.Asset, error) {
	query := `
		SELECT id, file_name, storage_key, storage_path, uploaded_at
		FROM assets WHERE id = $1`

	var asset binstash.Asset
	err := r.db.QueryRow(ctx, query, id).Scan(
		&asset.ID, &asset.FileName, &asset.StorageKey, &asset.StoragePath, &asset.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, binstash.ErrAssetNotFound
		}
		return nil, r.handlePostgresError("get asset", err)
	}

	return &asset, nil
}

// DeleteAsset removes the row permanently. The sequence behind id is
// never reset, so ids are not reused.
func (r *Repository) DeleteAsset(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return binstash.ErrAssetNotFound
	}

	return nil
}

func (r *Repository) RecordHealthCheck(ctx context.Context, at time.Time) error {
	_, err := r.db.Exec(ctx, `INSERT INTO health_checks (occurred_at) VALUES ($1)`, at)
	if err != nil {
		return r.handlePostgresError("record health check", err)
	}

	return nil
}
