// Package ingest turns raw delimited rows into address records and drives
// one ingestion run over a directory of source files.
package ingest

import (
	"path/filepath"
	"strconv"
	"strings"

	"addrload/internal/store"
)

// Recognized logical columns. Source headers may carry them in upper or
// lower case; the upper-case variant wins when both hold a value.
const (
	colLon      = "lon"
	colLat      = "lat"
	colNumber   = "number"
	colStreet   = "street"
	colUnit     = "unit"
	colCity     = "city"
	colDistrict = "district"
	colRegion   = "region"
	colPostcode = "postcode"
)

// Row maps raw header names (case preserved) to cell values for one record.
type Row map[string]string

// MakeRow pairs a header row with a data record. Records shorter than the
// header leave the trailing columns absent; extra cells are dropped.
func MakeRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		row[name] = record[i]
	}
	return row
}

// lookup resolves a logical column: upper-case header first, then
// lower-case. Empty cells count as absent, so an empty upper-case cell
// falls through to the lower-case one.
func (r Row) lookup(name string) (string, bool) {
	if v := r[strings.ToUpper(name)]; v != "" {
		return v, true
	}
	if v := r[strings.ToLower(name)]; v != "" {
		return v, true
	}
	return "", false
}

// textField returns the resolved value as a pointer, nil when absent.
func (r Row) textField(name string) *string {
	if v, ok := r.lookup(name); ok {
		return &v
	}
	return nil
}

// coordField parses the resolved value as decimal degrees. Absent and
// unparseable values both come back nil; the store's not-null constraint
// then quarantines the record as a missing value.
func (r Row) coordField(name string) *float64 {
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Normalize maps one raw row to a candidate record.
//
// City is the only field guaranteed non-nil: when neither CITY nor city is
// populated it is backfilled from fallbackCity (which may itself be empty).
// Street defaults to the empty string so the empty-city+empty-street drop
// rule in the store can fire. Pure transformation, no side effects.
func Normalize(row Row, fallbackCity string) store.Record {
	city, ok := row.lookup(colCity)
	if !ok {
		city = fallbackCity
	}

	street := ""
	if v, ok := row.lookup(colStreet); ok {
		street = v
	}

	return store.Record{
		Lat:      row.coordField(colLat),
		Lon:      row.coordField(colLon),
		Number:   row.textField(colNumber),
		Street:   street,
		Unit:     row.textField(colUnit),
		City:     city,
		District: row.textField(colDistrict),
		Region:   row.textField(colRegion),
		Postcode: row.textField(colPostcode),
	}
}

// FallbackCity derives a city name from a source file path: base name
// without extension, the known prefix stripped, separators replaced by
// spaces. "data/city_of_des_moines.csv" with prefix "city_of_" becomes
// "des moines".
func FallbackCity(path, prefix string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimPrefix(base, prefix)
	return strings.ReplaceAll(base, "_", " ")
}
