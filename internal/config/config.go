// Package config provides centralized configuration management for the loader.
// It reads settings from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all loader configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Ingest   IngestConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// IngestConfig holds ingestion run settings.
type IngestConfig struct {
	// BatchSize is the number of submissions between commits (default: 1000)
	BatchSize int `env:"INGEST_BATCH_SIZE" default:"1000"`

	// FileExtension is the extension of recognized source files (default: .csv)
	FileExtension string `env:"INGEST_FILE_EXTENSION" default:".csv"`

	// CityPrefix is the source-name prefix stripped when deriving a
	// fallback city from a file name (default: city_of_)
	CityPrefix string `env:"INGEST_CITY_PREFIX" default:"city_of_"`

	// Timeout is the maximum duration for a full ingestion run (default: 0, no limit)
	Timeout time.Duration `env:"INGEST_TIMEOUT" default:"0s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
