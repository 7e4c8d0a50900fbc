package ingest

import (
	"strings"
	"time"
)

const invalidNPI = "0000000000"

// NormalizeNPI strips surrounding whitespace and left-pads the identifier
// with zeros to 10 characters. Values already 10 or more characters long are
// returned stripped but otherwise untouched.
func NormalizeNPI(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		return s
	}
	return strings.Repeat("0", 10-len(s)) + s
}

// ValidNPI reports whether a normalized identifier can participate in joins
// and aggregations. Null-ish, empty, and all-zero identifiers are excluded.
func ValidNPI(s string) bool {
	return s != "" && s != invalidNPI
}

// dateFormats are tried in order; the first successful parse wins.
// "2006-01" is handled separately by appending "-01".
var dateFormats = []string{"2006-01-02", "20060102", "01/02/2006"}

// ParseDate coerces a raw string to a date. Unparseable values are not an
// error: the second return is false and callers exclude the row from
// date-dependent computations.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// YYYY-MM: treat as the first of the month
	if t, err := time.Parse("2006-01-02", s+"-01"); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// PeriodKey derives a "YYYY-MM" key from a coerced date, falling back to the
// first 7 characters of the raw value when the date could not be typed.
func PeriodKey(t time.Time, hasDate bool, raw string) string {
	if hasDate {
		return t.Format("2006-01")
	}
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 {
		return raw[:7]
	}
	return raw
}

// MonthsBetween returns the calendar-month difference b - a, ignoring days.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
