package ingest

import (
	"testing"
)

func TestRowLookup_CasePrecedence(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		col  string
		want string
		ok   bool
	}{
		{
			name: "upper case wins when both present",
			row:  Row{"LAT": "1.0", "lat": "2.0"},
			col:  "lat",
			want: "1.0",
			ok:   true,
		},
		{
			name: "lower case only",
			row:  Row{"lat": "2.0"},
			col:  "lat",
			want: "2.0",
			ok:   true,
		},
		{
			name: "upper case only",
			row:  Row{"STREET": "Main St"},
			col:  "street",
			want: "Main St",
			ok:   true,
		},
		{
			name: "empty upper cell falls through to lower",
			row:  Row{"CITY": "", "city": "springfield"},
			col:  "city",
			want: "springfield",
			ok:   true,
		},
		{
			name: "empty cells count as absent",
			row:  Row{"CITY": "", "city": ""},
			col:  "city",
			want: "",
			ok:   false,
		},
		{
			name: "absent column",
			row:  Row{"LAT": "1.0"},
			col:  "lon",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.row.lookup(tt.col)
			if got != tt.want || ok != tt.ok {
				t.Errorf("lookup(%q) = (%q, %v), want (%q, %v)", tt.col, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMakeRow(t *testing.T) {
	header := []string{"LAT", "LON", "STREET"}

	t.Run("pairs header with record", func(t *testing.T) {
		row := MakeRow(header, []string{"1.0", "2.0", "Main St"})
		if row["LAT"] != "1.0" || row["LON"] != "2.0" || row["STREET"] != "Main St" {
			t.Errorf("MakeRow = %v", row)
		}
	})

	t.Run("short record leaves trailing columns absent", func(t *testing.T) {
		row := MakeRow(header, []string{"1.0"})
		if row["LAT"] != "1.0" {
			t.Errorf("LAT = %q, want %q", row["LAT"], "1.0")
		}
		if _, ok := row["STREET"]; ok {
			t.Error("STREET should be absent for a short record")
		}
	})

	t.Run("extra cells are dropped", func(t *testing.T) {
		row := MakeRow(header, []string{"1.0", "2.0", "Main St", "extra"})
		if len(row) != 3 {
			t.Errorf("len(row) = %d, want 3", len(row))
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		row := Row{
			"LAT": "41.6", "LON": "-93.6", "NUMBER": "123", "STREET": "Grand Ave",
			"UNIT": "2B", "CITY": "Des Moines", "DISTRICT": "Polk", "REGION": "IA",
			"POSTCODE": "50309",
		}
		rec := Normalize(row, "fallback")

		if rec.Lat == nil || *rec.Lat != 41.6 {
			t.Errorf("Lat = %v, want 41.6", rec.Lat)
		}
		if rec.Lon == nil || *rec.Lon != -93.6 {
			t.Errorf("Lon = %v, want -93.6", rec.Lon)
		}
		if rec.Number == nil || *rec.Number != "123" {
			t.Errorf("Number = %v, want 123", rec.Number)
		}
		if rec.Street != "Grand Ave" {
			t.Errorf("Street = %q, want %q", rec.Street, "Grand Ave")
		}
		if rec.City != "Des Moines" {
			t.Errorf("City = %q, want %q", rec.City, "Des Moines")
		}
		if rec.Postcode == nil || *rec.Postcode != "50309" {
			t.Errorf("Postcode = %v, want 50309", rec.Postcode)
		}
	})

	t.Run("city falls back to source name", func(t *testing.T) {
		rec := Normalize(Row{"LAT": "1.0", "LON": "2.0", "STREET": "Main St"}, "des moines")
		if rec.City != "des moines" {
			t.Errorf("City = %q, want fallback %q", rec.City, "des moines")
		}
	})

	t.Run("street defaults to empty string", func(t *testing.T) {
		rec := Normalize(Row{"LAT": "1.0", "LON": "2.0", "CITY": "Des Moines"}, "")
		if rec.Street != "" {
			t.Errorf("Street = %q, want empty string", rec.Street)
		}
	})

	t.Run("missing latitude is nil", func(t *testing.T) {
		rec := Normalize(Row{"LON": "2.0", "STREET": "Main St"}, "x")
		if rec.Lat != nil {
			t.Errorf("Lat = %v, want nil", rec.Lat)
		}
	})

	t.Run("unparseable latitude is nil", func(t *testing.T) {
		rec := Normalize(Row{"LAT": "north", "LON": "2.0", "STREET": "Main St"}, "x")
		if rec.Lat != nil {
			t.Errorf("Lat = %v, want nil", rec.Lat)
		}
	})

	t.Run("optional fields absent are nil", func(t *testing.T) {
		rec := Normalize(Row{"LAT": "1.0", "LON": "2.0", "STREET": "Main St"}, "x")
		if rec.Number != nil || rec.Unit != nil || rec.District != nil ||
			rec.Region != nil || rec.Postcode != nil {
			t.Errorf("optional fields should be nil: %s", rec)
		}
	})
}

func TestFallbackCity(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		want   string
	}{
		{
			name:   "prefix and separators",
			path:   "data/city_of_des_moines.csv",
			prefix: "city_of_",
			want:   "des moines",
		},
		{
			name:   "no prefix",
			path:   "data/oakville.csv",
			prefix: "city_of_",
			want:   "oakville",
		},
		{
			name:   "nested path",
			path:   "us/ia/city_of_cedar_rapids.csv",
			prefix: "city_of_",
			want:   "cedar rapids",
		},
		{
			name:   "no extension",
			path:   "city_of_ames",
			prefix: "city_of_",
			want:   "ames",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackCity(tt.path, tt.prefix)
			if got != tt.want {
				t.Errorf("FallbackCity(%q, %q) = %q, want %q", tt.path, tt.prefix, got, tt.want)
			}
		})
	}
}
