// Command addrload ingests delimited address files from a directory tree
// into PostgreSQL, quarantining malformed rows instead of aborting.
//
// Usage:
//
//	addrload <directory>
//
// Connection and tuning settings come from the environment (see
// internal/config); a .env file in the working directory is honored.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"addrload/internal/config"
	"addrload/internal/ingest"
	"addrload/internal/logging"
	"addrload/internal/report"
	"addrload/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: addrload <directory>")
		return 2
	}
	root := os.Args[1]

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	runID := uuid.New()
	logger := logging.WithRun(runID.String())

	logger.Info("configuration loaded",
		"root", root,
		"batch_size", cfg.Ingest.BatchSize,
		"file_extension", cfg.Ingest.FileExtension,
	)

	// Parse and configure connection pool
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		return 1
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	ctx := context.Background()
	if cfg.Ingest.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Ingest.Timeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		return 1
	}

	st := store.New(pool, cfg.Ingest.BatchSize, runID)
	defer st.Close(ctx)

	if err := st.Init(ctx); err != nil {
		logger.Error("failed to initialize store", "error", err)
		return 1
	}

	driver := ingest.NewDriver(st, logger, cfg.Ingest.FileExtension, cfg.Ingest.CityPrefix)
	if _, err := driver.Run(ctx, root); err != nil {
		logger.Error("ingestion run failed", "error", err)
		return 1
	}

	counters := st.Counters()
	logger.Info("run complete",
		"accepted", counters.Accepted,
		"quarantined", counters.Quarantined,
		"discarded", counters.Discarded,
	)

	summary, err := report.Build(ctx, st)
	if err != nil {
		logger.Error("reporting failed", "error", err)
		return 1
	}
	summary.Log(logger)

	return 0
}
