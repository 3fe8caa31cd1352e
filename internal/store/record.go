// Package store enforces the acceptance and quarantine policy for address
// records on top of PostgreSQL.
//
// Accepted records live in the addresses table under a composite uniqueness
// key; rejected records live in addresses_errors tagged with a failure kind.
// Writes are buffered inside one transaction and committed in batches.
package store

import (
	"fmt"
	"strings"
)

// Record is a candidate address produced by the normalizer, not yet validated.
// Optional fields are nil pointers. Street is never nil: absent street
// normalizes to the empty string so the empty-city+empty-street drop rule
// can fire. City is never nil either, the normalizer backfills it from the
// source name (it may still be empty).
type Record struct {
	Lat      *float64
	Lon      *float64
	Number   *string
	Street   string
	Unit     *string
	City     string
	District *string
	Region   *string
	Postcode *string
}

// String renders the record for diagnostics, with nil fields shown as <nil>.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString("Record{")
	b.WriteString("lat: " + fmtFloat(r.Lat))
	b.WriteString(", lon: " + fmtFloat(r.Lon))
	b.WriteString(", number: " + fmtText(r.Number))
	b.WriteString(fmt.Sprintf(", street: %q", r.Street))
	b.WriteString(", unit: " + fmtText(r.Unit))
	b.WriteString(fmt.Sprintf(", city: %q", r.City))
	b.WriteString(", district: " + fmtText(r.District))
	b.WriteString(", region: " + fmtText(r.Region))
	b.WriteString(", postcode: " + fmtText(r.Postcode))
	b.WriteString("}")
	return b.String()
}

func fmtFloat(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%g", *f)
}

func fmtText(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", *s)
}

// Disposition is the terminal state of one submission.
type Disposition int

const (
	// DispositionDiscarded means the record had neither city nor street and
	// was dropped without being stored or counted as an error.
	DispositionDiscarded Disposition = iota

	// DispositionAccepted means the record was inserted into the accepted set.
	DispositionAccepted

	// DispositionQuarantined means the record violated a recognized
	// constraint and was stored in the quarantine set with a kind tag.
	DispositionQuarantined
)

// String returns the disposition name for logs and tests.
func (d Disposition) String() string {
	switch d {
	case DispositionAccepted:
		return "accepted"
	case DispositionQuarantined:
		return "quarantined"
	default:
		return "discarded"
	}
}

// Counters aggregates submission outcomes for one ingestion run.
// They are owned by the Store instance, not package state, so their
// lifecycle is tied to exactly one run.
type Counters struct {
	Accepted    int
	Quarantined int
	Discarded   int
}
