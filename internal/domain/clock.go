package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the canonical calendar-day form used across the
	// ledger, the aggregate view and all period filters.
	DateLayout = "2006-01-02"
	// ClockLayout is the canonical within-day time form.
	ClockLayout = "15:04"
)

// ParseDate parses a strict YYYY-MM-DD date. The round-trip check rejects
// inputs Go's parser would normalize (e.g. "2025-9-20").
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	if d.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// ParseClock parses a strict HH:MM time of day.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	if t.Format(ClockLayout) != s {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	return t, nil
}

// ClockMinutes converts an HH:MM string to minutes since midnight.
// Callers must have validated the string first.
func ClockMinutes(s string) int {
	t, err := ParseClock(s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// MinutesToClock formats minutes since midnight as HH:MM.
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
