package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the flat environment surface, read with cleanenv.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	DatabaseURL string `env:"DATABASE_URL"`

	StorageType string `env:"STORAGE_TYPE" env-default:"memory"`

	FSBaseDir   string `env:"FS_BASE_DIR"`
	FSURLPrefix string `env:"FS_URL_PREFIX"`

	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`

	StepTimeoutSeconds int `env:"STORE_STEP_TIMEOUT_SECONDS" env-default:"10"`
}

// WithEnv applies environment variable overrides.
//
// DATABASE_URL starting with "postgres" selects the postgres catalog;
// empty or "memory" selects the in-memory catalog. STORAGE_TYPE is one
// of "memory", "fs" (FS_BASE_DIR) or "s3" (S3_BUCKET, S3_REGION and the
// usual AWS credential variables, plus S3_ENDPOINT for MinIO).
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var ec envConfig
		if err := cleanenv.ReadEnv(&ec); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = ec.Port
		c.Environment = ec.Environment

		switch {
		case ec.DatabaseURL == "" || ec.DatabaseURL == "memory":
			c.DatabaseType = "memory"
			c.DatabaseURL = ""
		case strings.HasPrefix(ec.DatabaseURL, "postgres://") ||
			strings.HasPrefix(ec.DatabaseURL, "postgresql://"):
			c.DatabaseType = "postgres"
			c.DatabaseURL = ec.DatabaseURL
		default:
			return fmt.Errorf("unsupported DATABASE_URL: %s", ec.DatabaseURL)
		}

		c.StorageType = ec.StorageType
		c.FS.BaseDir = ec.FSBaseDir
		c.FS.URLPrefix = ec.FSURLPrefix
		c.S3.Region = ec.S3Region
		c.S3.Bucket = ec.S3Bucket
		c.S3.Endpoint = ec.S3Endpoint
		c.S3.AccessKeyID = ec.S3AccessKeyID
		c.S3.SecretAccessKey = ec.S3SecretAccessKey
		c.S3.UsePathStyle = ec.S3UsePathStyle
		c.S3.CreateBucketIfNotExist = ec.S3CreateBucket

		c.StepTimeout = time.Duration(ec.StepTimeoutSeconds) * time.Second

		return nil
	}
}
