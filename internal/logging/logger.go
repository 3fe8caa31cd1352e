// Package logging provides structured logging configuration using log/slog.
//
// All loader output goes through slog: per-source progress lines, completion
// lines, and the final summary. Run-scoped fields (run_id) are attached with
// WithRun so every entry for one ingestion run can be correlated.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format in production for machine parsing (ELK, CloudWatch, etc.)
// Use "text" format in development for human readability.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRun returns a logger that includes run_id in all entries.
//
// Usage:
//
//	logger := logging.WithRun(runID)
//	logger.Info("reading source", "file", path)
func WithRun(runID string) *slog.Logger {
	return slog.Default().With("run_id", runID)
}

// WithFields returns a logger with additional structured fields.
//
// This is useful for creating operation-specific loggers that carry
// consistent context through a multi-step process.
//
// Usage:
//
//	srcLogger := logging.WithFields("source", fileName, "city", fallbackCity)
//	srcLogger.Info("source started")
//	// ... later ...
//	srcLogger.Info("source completed", "accepted", accepted)
func WithFields(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}
