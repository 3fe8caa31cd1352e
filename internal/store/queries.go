package store

import (
	"context"
	"fmt"
)

// KindCount is one row of the quarantine breakdown.
type KindCount struct {
	Kind  string
	Count int64
}

// CountAccepted returns the number of records in the accepted set.
// Call it after a flush; uncommitted submissions are not visible.
func (s *Store) CountAccepted(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM addresses").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count accepted: %w", err)
	}
	return n, nil
}

// CountCities returns the number of distinct cities among accepted records.
func (s *Store) CountCities(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(DISTINCT city) FROM addresses").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cities: %w", err)
	}
	return n, nil
}

// CountQuarantined returns the number of records in the quarantine set.
func (s *Store) CountQuarantined(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM addresses_errors").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count quarantined: %w", err)
	}
	return n, nil
}

// QuarantinedByKind returns quarantine counts grouped by kind, excluding
// rows with no classification, ordered by kind for deterministic output.
func (s *Store) QuarantinedByKind(ctx context.Context) ([]KindCount, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT kind, COUNT(*) FROM addresses_errors WHERE kind IS NOT NULL GROUP BY kind ORDER BY kind")
	if err != nil {
		return nil, fmt.Errorf("quarantined by kind: %w", err)
	}
	defer rows.Close()

	var out []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		out = append(out, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}
	return out, nil
}
