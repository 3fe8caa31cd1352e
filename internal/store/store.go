package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultBatchSize is the number of submissions buffered between commits.
var DefaultBatchSize = 1000

// Store holds accepted records under the composite uniqueness key and
// quarantined records tagged with a failure kind. One Store serves exactly
// one ingestion run; Init drops whatever a previous run left behind.
//
// Store is not safe for concurrent use. The run is single-threaded by
// design; anyone adding parallel sources must serialize Submit calls
// because the uniqueness invariant is global.
type Store struct {
	pool      *pgxpool.Pool
	tx        pgx.Tx
	pending   int
	batchSize int
	runID     uuid.UUID
	counters  Counters
}

// New creates a Store for one ingestion run. A batchSize of zero or less
// falls back to DefaultBatchSize.
func New(pool *pgxpool.Pool, batchSize int, runID uuid.UUID) *Store {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{
		pool:      pool,
		batchSize: batchSize,
		runID:     runID,
	}
}

const schemaSQL = `
DROP TABLE IF EXISTS addresses;
DROP TABLE IF EXISTS addresses_errors;

CREATE TABLE addresses (
	lat      DOUBLE PRECISION NOT NULL,
	lon      DOUBLE PRECISION NOT NULL,
	number   TEXT NOT NULL DEFAULT '',
	street   TEXT NOT NULL,
	unit     TEXT,
	city     TEXT NOT NULL DEFAULT '',
	district TEXT,
	region   TEXT,
	postcode TEXT,
	PRIMARY KEY (lat, lon, number, street, city)
);

CREATE TABLE addresses_errors (
	lat      DOUBLE PRECISION,
	lon      DOUBLE PRECISION,
	number   TEXT,
	street   TEXT,
	unit     TEXT,
	city     TEXT,
	district TEXT,
	region   TEXT,
	postcode TEXT,
	kind     TEXT,
	run_id   UUID
);
`

// Init drops and recreates both tables. Records only live as long as one
// ingestion run; there is no update or delete path after insertion.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

const insertAddressSQL = `
INSERT INTO addresses (lat, lon, number, street, unit, city, district, region, postcode)
VALUES ($1, $2, COALESCE($3, ''), $4, $5, $6, $7, $8, $9)`

const insertErrorSQL = `
INSERT INTO addresses_errors (lat, lon, number, street, unit, city, district, region, postcode, kind, run_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Submit applies the acceptance policy to one record.
//
// A record with both empty city and empty street is discarded silently.
// Otherwise the record is inserted into the accepted set; a recognized
// constraint violation moves it to quarantine with its kind and the run
// continues. An unrecognized violation returns an *UnclassifiedError and
// the caller must halt the run.
func (s *Store) Submit(ctx context.Context, rec Record) (Disposition, error) {
	if rec.City == "" && rec.Street == "" {
		s.counters.Discarded++
		return DispositionDiscarded, nil
	}

	if err := s.ensureTx(ctx); err != nil {
		return 0, err
	}

	// Savepoint so a failed insert does not poison the batch transaction.
	if _, err := s.tx.Exec(ctx, "SAVEPOINT submit"); err != nil {
		return 0, fmt.Errorf("create savepoint: %w", err)
	}

	_, err := s.tx.Exec(ctx, insertAddressSQL,
		rec.Lat, rec.Lon, rec.Number, rec.Street, rec.Unit,
		rec.City, rec.District, rec.Region, rec.Postcode)
	if err == nil {
		if _, err := s.tx.Exec(ctx, "RELEASE SAVEPOINT submit"); err != nil {
			return 0, fmt.Errorf("release savepoint: %w", err)
		}
		s.counters.Accepted++
		return DispositionAccepted, s.bump(ctx)
	}

	if _, rbErr := s.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT submit"); rbErr != nil {
		return 0, fmt.Errorf("rollback savepoint after %v: %w", err, rbErr)
	}

	kind, ok := Classify(err)
	if !ok {
		return 0, &UnclassifiedError{Record: rec, Err: err}
	}

	runID := pgtype.UUID{Bytes: s.runID, Valid: true}
	_, err = s.tx.Exec(ctx, insertErrorSQL,
		rec.Lat, rec.Lon, rec.Number, rec.Street, rec.Unit,
		rec.City, rec.District, rec.Region, rec.Postcode, kind, runID)
	if err != nil {
		return 0, fmt.Errorf("quarantine record %s: %w", rec, err)
	}

	s.counters.Quarantined++
	return DispositionQuarantined, s.bump(ctx)
}

// ensureTx lazily opens the batch transaction.
func (s *Store) ensureTx(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch transaction: %w", err)
	}
	s.tx = tx
	return nil
}

// bump records one buffered write and commits once the batch is full.
func (s *Store) bump(ctx context.Context) error {
	s.pending++
	if s.pending < s.batchSize {
		return nil
	}
	return s.Flush(ctx)
}

// Flush commits all buffered submissions. Flushing with nothing pending is
// a no-op, so calling it repeatedly is safe.
func (s *Store) Flush(ctx context.Context) error {
	if s.tx == nil || s.pending == 0 {
		return nil
	}
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch of %d: %w", s.pending, err)
	}
	s.tx = nil
	s.pending = 0
	return nil
}

// Close rolls back any uncommitted batch. Call it on the error path; after
// a successful Flush it does nothing.
func (s *Store) Close(ctx context.Context) {
	if s.tx != nil {
		_ = s.tx.Rollback(ctx)
		s.tx = nil
		s.pending = 0
	}
}

// Counters returns a snapshot of the run counters.
func (s *Store) Counters() Counters {
	return s.counters
}

// RunID returns the identifier tagged onto quarantined rows for this run.
func (s *Store) RunID() uuid.UUID {
	return s.runID
}
