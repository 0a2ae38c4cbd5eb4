package http

import (
	"net/url"
	"testing"
	"time"

	"fullbalance/internal/analytics"
)

func TestParseCriteria(t *testing.T) {
	t.Run("empty query is inactive", func(t *testing.T) {
		c, err := parseCriteria(url.Values{})
		if err != nil {
			t.Fatalf("parseCriteria() error = %v", err)
		}
		if c.IsActive() {
			t.Error("empty query should produce inactive criteria")
		}
	})

	t.Run("date bounds normalized to day edges", func(t *testing.T) {
		q := url.Values{"start": {"2024-01-01"}, "end": {"2024-01-31"}}
		c, err := parseCriteria(q)
		if err != nil {
			t.Fatalf("parseCriteria() error = %v", err)
		}
		if c.Start.Hour() != 0 || c.Start.Day() != 1 {
			t.Errorf("start = %v, want midnight Jan 1", c.Start)
		}
		if c.End.Hour() != 23 || c.End.Minute() != 59 {
			t.Errorf("end = %v, want end of Jan 31", c.End)
		}
	})

	t.Run("invalid inputs", func(t *testing.T) {
		if _, err := parseCriteria(url.Values{"kind": {"transfer"}}); err == nil {
			t.Error("expected error for unknown kind")
		}
		if _, err := parseCriteria(url.Values{"start": {"31/01/2024"}}); err == nil {
			t.Error("expected error for malformed date")
		}
	})

	t.Run("all sentinel values stay inactive", func(t *testing.T) {
		q := url.Values{"kind": {analytics.KindAll}, "account_id": {analytics.AccountAll}}
		c, err := parseCriteria(q)
		if err != nil {
			t.Fatalf("parseCriteria() error = %v", err)
		}
		if c.IsActive() {
			t.Error("\"all\" selectors should not activate filtering")
		}
	})
}

func TestParseDate(t *testing.T) {
	t.Run("bare date lands at noon UTC", func(t *testing.T) {
		d, err := parseDate("2024-03-05")
		if err != nil {
			t.Fatalf("parseDate() error = %v", err)
		}
		want := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
		if !d.Equal(want) {
			t.Errorf("parseDate() = %v, want %v", d, want)
		}
	})

	t.Run("RFC3339 preserved", func(t *testing.T) {
		d, err := parseDate("2024-03-05T08:30:00Z")
		if err != nil {
			t.Fatalf("parseDate() error = %v", err)
		}
		if d.Hour() != 8 || d.Minute() != 30 {
			t.Errorf("parseDate() = %v", d)
		}
	})

	t.Run("empty and garbage rejected", func(t *testing.T) {
		if _, err := parseDate(""); err == nil {
			t.Error("expected error for empty date")
		}
		if _, err := parseDate("yesterday"); err == nil {
			t.Error("expected error for garbage date")
		}
	})
}

func TestPaginationSlice(t *testing.T) {
	tests := []struct {
		name       string
		p          pagination
		total      int
		start, end int
	}{
		{"first page", pagination{Page: 1, PageSize: 10}, 25, 0, 10},
		{"middle page", pagination{Page: 2, PageSize: 10}, 25, 10, 20},
		{"short last page", pagination{Page: 3, PageSize: 10}, 25, 20, 25},
		{"past the end", pagination{Page: 5, PageSize: 10}, 25, 25, 25},
		{"empty list", pagination{Page: 1, PageSize: 10}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.p.slice(tt.total)
			if start != tt.start || end != tt.end {
				t.Errorf("slice(%d) = (%d, %d), want (%d, %d)", tt.total, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"  hello  ", "hello"},
		{"multi\nline", "multi\nline"},
		{"null\x00byte", "nullbyte"},
		{"bell\x07char", "bellchar"},
	}

	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.out {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}
