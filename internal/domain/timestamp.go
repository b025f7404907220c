package domain

import (
	"strings"
	"time"
)

// Timestamp is a raw date string as stored upstream. It may be empty or malformed;
// callers resolve it with Parse and exclude records that do not parse.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse resolves the timestamp. Values without an offset are read as UTC.
func (t Timestamp) Parse() (time.Time, bool) {
	raw := strings.TrimSpace(string(t))
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// IsZero reports whether the timestamp is absent.
func (t Timestamp) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

// DaysBetween returns whole elapsed days from start to end, floored like a calendar
// difference (a negative half day counts as -1).
func DaysBetween(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
