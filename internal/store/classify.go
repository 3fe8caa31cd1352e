package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Quarantine kind tags. MissingValue kinds carry the column name, e.g.
// "missing_value: lat".
const (
	KindDuplicate          = "duplicate"
	kindMissingValuePrefix = "missing_value: "
)

// PostgreSQL SQLSTATE codes for the two constraint shapes we recognize.
const (
	codeUniqueViolation  = "23505"
	codeNotNullViolation = "23502"
)

// KindMissingValue builds the quarantine kind for a missing required column.
func KindMissingValue(column string) string {
	return kindMissingValuePrefix + column
}

// Classify maps an insert error to a quarantine kind.
//
// Returns the kind and true for the two recognized constraint shapes:
// unique violations ("duplicate") and not-null violations
// ("missing_value: <column>"). Anything else returns false and must be
// treated as fatal by the caller.
func Classify(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return KindDuplicate, true
	case codeNotNullViolation:
		col := pgErr.ColumnName
		if col == "" {
			col = columnFromMessage(pgErr.Message)
		}
		if col == "" {
			return "", false
		}
		return KindMissingValue(col), true
	default:
		return "", false
	}
}

// columnFromMessage extracts the column name from a not-null violation
// message of the shape `null value in column "lat" of relation ...`.
// Older servers and some poolers omit the structured column field.
func columnFromMessage(msg string) string {
	const marker = `null value in column "`
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	j := strings.Index(rest, `"`)
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// UnclassifiedError reports a constraint violation the store does not
// recognize. It carries the full rejected record and the raw database error
// so operators can diagnose the unseen constraint shape. The run halts on
// this error instead of continuing in an unknown state.
type UnclassifiedError struct {
	Record Record
	Err    error
}

func (e *UnclassifiedError) Error() string {
	return fmt.Sprintf("unclassified constraint violation: %v (record: %s)", e.Err, e.Record)
}

func (e *UnclassifiedError) Unwrap() error {
	return e.Err
}
