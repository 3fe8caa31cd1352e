// Package report renders the end-of-run summary from the store aggregates.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"addrload/internal/store"
)

// Queries is the read-only slice of the store the report needs.
type Queries interface {
	CountAccepted(ctx context.Context) (int64, error)
	CountCities(ctx context.Context) (int64, error)
	CountQuarantined(ctx context.Context) (int64, error)
	QuarantinedByKind(ctx context.Context) ([]store.KindCount, error)
}

// Summary holds the aggregate totals for one completed run.
type Summary struct {
	Accepted    int64
	Cities      int64
	Quarantined int64
	ByKind      []store.KindCount
}

// Build reads all aggregates. Any query failure is returned with context
// and is fatal to the run; a partial report is never produced.
func Build(ctx context.Context, q Queries) (Summary, error) {
	var s Summary
	var err error

	if s.Accepted, err = q.CountAccepted(ctx); err != nil {
		return s, fmt.Errorf("report accepted total: %w", err)
	}
	if s.Cities, err = q.CountCities(ctx); err != nil {
		return s, fmt.Errorf("report city total: %w", err)
	}
	if s.Quarantined, err = q.CountQuarantined(ctx); err != nil {
		return s, fmt.Errorf("report quarantine total: %w", err)
	}
	if s.ByKind, err = q.QuarantinedByKind(ctx); err != nil {
		return s, fmt.Errorf("report quarantine breakdown: %w", err)
	}
	return s, nil
}

// Log emits the summary and the per-kind breakdown.
func (s Summary) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("run summary",
		"accepted", s.Accepted,
		"cities", s.Cities,
		"quarantined", s.Quarantined,
	)
	for _, kc := range s.ByKind {
		logger.Info("quarantine breakdown", "kind", kc.Kind, "count", kc.Count)
	}
}
