// Package config builds a running service out of declarative settings.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binstash/binstash/pkg/binstash"
	repomemory "github.com/binstash/binstash/pkg/binstash/repo/memory"
	repopg "github.com/binstash/binstash/pkg/binstash/repo/postgres"
	fsstorage "github.com/binstash/binstash/pkg/binstash/storage/fs"
	memorystorage "github.com/binstash/binstash/pkg/binstash/storage/memory"
	s3storage "github.com/binstash/binstash/pkg/binstash/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top
// of defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		StorageType:  "memory",
		StepTimeout:  10 * time.Second,
	}
}

// ServerConfig represents server configuration for the asset service.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType string // "memory", "fs", "s3"
	FS          fsstorage.Config
	S3          s3storage.Config

	// Per-step timeout for blob store and catalog calls.
	StepTimeout time.Duration
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FS.BaseDir == "" {
			return errors.New("fs base dir is required when using fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory', 'fs' or 's3'")
	}

	return nil
}

// BuildCatalog creates the metadata catalog described by the config.
func (c *ServerConfig) BuildCatalog(ctx context.Context) (binstash.Catalog, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return repomemory.New(), nil
	}
}

// BuildBlobStore creates the blob store described by the config.
func (c *ServerConfig) BuildBlobStore() (binstash.BlobStore, error) {
	switch c.StorageType {
	case "s3":
		return s3storage.New(c.S3)
	case "fs":
		return fsstorage.New(c.FS)
	default:
		return memorystorage.New(), nil
	}
}

// BuildService creates a Service instance from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (binstash.Service, error) {
	catalog, err := c.BuildCatalog(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, err
	}

	return binstash.New(
		binstash.WithCatalog(catalog),
		binstash.WithBlobStore(store),
		binstash.WithStepTimeout(c.StepTimeout),
	)
}
