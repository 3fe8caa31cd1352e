package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"addrload/internal/store"
)

// RecordStore is the slice of the store the driver needs: one submission
// path and a flush for end-of-run durability.
type RecordStore interface {
	Submit(ctx context.Context, rec store.Record) (store.Disposition, error)
	Flush(ctx context.Context) error
}

// SourceResult summarizes one processed source file.
type SourceResult struct {
	Path         string
	FallbackCity string
	Accepted     int
	Quarantined  int
	Discarded    int
	Elapsed      time.Duration
}

// Driver orchestrates one run over a directory tree of delimited sources.
// Each source is processed independently and sequentially, rows in file
// order, so a run is deterministic for a given tree.
type Driver struct {
	store  RecordStore
	log    *slog.Logger
	ext    string
	prefix string
}

// NewDriver creates a driver. ext is the recognized source extension
// (".csv"); prefix is stripped from file names when deriving the fallback
// city.
func NewDriver(rs RecordStore, logger *slog.Logger, ext, prefix string) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{store: rs, log: logger, ext: ext, prefix: prefix}
}

// Run walks root, processes every recognized source file, and forces a
// final flush. Files with other extensions are skipped without error.
// Per-record failures never abort the run; store-level failures do.
func (d *Driver) Run(ctx context.Context, root string) ([]SourceResult, error) {
	var results []SourceResult

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), d.ext) {
			return nil
		}

		res, err := d.processSource(ctx, path)
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, err
	}

	if err := d.store.Flush(ctx); err != nil {
		return results, fmt.Errorf("final flush: %w", err)
	}
	return results, nil
}

// processSource streams one file through the normalizer into the store.
func (d *Driver) processSource(ctx context.Context, path string) (SourceResult, error) {
	res := SourceResult{
		Path:         path,
		FallbackCity: FallbackCity(path, d.prefix),
	}
	start := time.Now()

	d.log.Info("reading source", "file", path, "fallback_city", res.FallbackCity)

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open source %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if len(header) > 0 {
		// Excel and friends prepend a BOM that would break column lookup.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err == io.EOF {
		// Headerless empty file: nothing to ingest.
		res.Elapsed = time.Since(start)
		d.logDone(res)
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read header of %s: %w", path, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("run cancelled in %s: %w", path, err)
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row of %s: %w", path, err)
		}

		rec := Normalize(MakeRow(header, record), res.FallbackCity)
		disp, err := d.store.Submit(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("submit row of %s: %w", path, err)
		}

		switch disp {
		case store.DispositionAccepted:
			res.Accepted++
		case store.DispositionQuarantined:
			res.Quarantined++
		default:
			res.Discarded++
		}
	}

	res.Elapsed = time.Since(start)
	d.logDone(res)
	return res, nil
}

func (d *Driver) logDone(res SourceResult) {
	d.log.Info("source done",
		"file", res.Path,
		"accepted", res.Accepted,
		"quarantined", res.Quarantined,
		"discarded", res.Discarded,
		"elapsed_seconds", res.Elapsed.Seconds(),
	)
}
