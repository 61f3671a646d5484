// Package timecalc computes derived times for work sessions: expected
// exit, surplus, and the lunch minutes that actually count against a
// day.
package timecalc

import (
	"fmt"
	"time"

	"github.com/alexanderramin/punchlog/internal/domain"
)

// ParseWorkDuration parses a nominal daily work time such as "8h" or
// "7h36m" into minutes. Seconds and sub-minute precision are rejected,
// as are non-positive and day-spanning values.
func ParseWorkDuration(s string) (int, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid work duration %q: %w", s, err)
	}
	if d <= 0 || d >= 24*time.Hour {
		return 0, fmt.Errorf("work duration %q out of range", s)
	}
	if d%time.Minute != 0 {
		return 0, fmt.Errorf("work duration %q has sub-minute precision", s)
	}
	return int(d / time.Minute), nil
}

// ExpectedExit returns the clock at which the nominal work time is
// fulfilled, given the session start and the recorded lunch break. At
// least minLunch minutes of lunch are budgeted even when less (or none)
// is recorded yet. Results past midnight are capped at 23:59.
func ExpectedExit(start string, workMinutes, lunch, minLunch int) (string, error) {
	if _, err := domain.ParseClock(start); err != nil {
		return "", err
	}
	if lunch < minLunch {
		lunch = minLunch
	}
	exit := domain.ClockMinutes(start) + workMinutes + lunch
	if exit > 23*60+59 {
		exit = 23*60 + 59
	}
	return domain.MinutesToClock(exit), nil
}

// WorkedMinutes returns the net worked time between start and end after
// subtracting the lunch break. Negative results are reported as zero.
func WorkedMinutes(start, end string, lunch int) int {
	worked := domain.ClockMinutes(end) - domain.ClockMinutes(start) - lunch
	if worked < 0 {
		return 0
	}
	return worked
}

// Surplus returns the signed difference in minutes between the net
// worked time and the nominal work time.
func Surplus(start, end string, lunch, workMinutes int) int {
	return WorkedMinutes(start, end, lunch) - workMinutes
}

// CrossesLunchWindow reports whether the [start, end] span overlaps the
// configured lunch window. An open session (empty end) never crosses.
func CrossesLunchWindow(start, end, windowStart, windowEnd string) bool {
	if start == "" || end == "" {
		return false
	}
	return start < windowEnd && end > windowStart
}

// EffectiveLunch returns the lunch minutes counted against a session.
// Holidays carry no lunch regardless of what is recorded. A session that
// crosses the lunch window is charged at least minLunch minutes even
// when the recorded break is shorter.
func EffectiveLunch(pos domain.Position, recorded int, crossesWindow bool, minLunch int) int {
	if pos == domain.PositionHoliday {
		return 0
	}
	if crossesWindow && recorded < minLunch {
		return minLunch
	}
	return recorded
}

// ClampLunch bounds an inferred lunch gap to the configured range.
func ClampLunch(gap, min, max int) int {
	if gap < min {
		return min
	}
	if gap > max {
		return max
	}
	return gap
}
