// Package config loads server settings from MEDIALIB_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver    string // MEDIALIB_DB_DRIVER (sqlite|postgres, default "sqlite")
	DatabaseURL string // MEDIALIB_DATABASE_URL (default "medialib.db"; required for postgres)
	HTTPAddr    string // MEDIALIB_HTTP_ADDR (default ":8080")
	NATSURL     string // MEDIALIB_NATS_URL (optional, empty = no events)
	AuthToken   string // MEDIALIB_AUTH_TOKEN (optional, empty = auth disabled)

	// Preset backup settings
	SyncInterval   time.Duration // MEDIALIB_SYNC_INTERVAL (default 10m; 0 = disabled)
	SyncFile       string        // MEDIALIB_SYNC_FILE (enables the file destination when set)
	SyncS3Bucket   string        // MEDIALIB_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // MEDIALIB_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // MEDIALIB_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // MEDIALIB_SYNC_S3_KEY (default "medialib/presets.jsonl")
}

// SyncEnabled reports whether any backup destination is configured.
func (c *Config) SyncEnabled() bool {
	return c.SyncInterval > 0 && (c.SyncFile != "" || c.SyncS3Bucket != "")
}

func Load() (*Config, error) {
	c := &Config{
		DBDriver:       envOrDefault("MEDIALIB_DB_DRIVER", DriverSQLite),
		DatabaseURL:    os.Getenv("MEDIALIB_DATABASE_URL"),
		HTTPAddr:       envOrDefault("MEDIALIB_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("MEDIALIB_NATS_URL"),
		AuthToken:      os.Getenv("MEDIALIB_AUTH_TOKEN"),
		SyncFile:       os.Getenv("MEDIALIB_SYNC_FILE"),
		SyncS3Bucket:   os.Getenv("MEDIALIB_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("MEDIALIB_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("MEDIALIB_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("MEDIALIB_SYNC_S3_KEY", "medialib/presets.jsonl"),
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DatabaseURL == "" {
			c.DatabaseURL = "medialib.db"
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("MEDIALIB_DATABASE_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("MEDIALIB_DB_DRIVER: unknown driver %q", c.DBDriver)
	}

	intervalStr := envOrDefault("MEDIALIB_SYNC_INTERVAL", "10m")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("MEDIALIB_SYNC_INTERVAL: %w", err)
	}
	if d < 0 {
		return nil, fmt.Errorf("MEDIALIB_SYNC_INTERVAL: must not be negative")
	}
	c.SyncInterval = d

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
