package domain

import "time"

// Punch is one in/out event in the append-only ledger. Date and Clock are
// kept as their canonical string forms ("2006-01-02", "15:04"); both sort
// lexicographically in chronological order, which the pairing engine and
// the aggregate projection rely on.
type Punch struct {
	ID         int64
	Date       string
	Clock      string
	Kind       Kind
	Position   Position
	LunchBreak int
	// Pair caches the last pairing result for external consumers of the
	// raw table. It is derivable, never authoritative: pairing is always
	// recomputed from the ordered ledger.
	Pair      int
	Source    string
	Meta      string
	CreatedAt time.Time
}

// Session is the one-row-per-date aggregate view kept for legacy reads.
// It is a pure projection of the date's punches and is never edited
// directly by callers.
type Session struct {
	ID       int64
	Date     string
	Position Position
	Start    string
	Lunch    int
	End      string
}

// WorkDuration returns the net worked time for a completed session
// (end - start - lunch), or zero when the session is still open or the
// fields don't parse.
func (s Session) WorkDuration() time.Duration {
	start, err := ParseClock(s.Start)
	if err != nil {
		return 0
	}
	end, err := ParseClock(s.End)
	if err != nil {
		return 0
	}
	d := end.Sub(start) - time.Duration(s.Lunch)*time.Minute
	if d < 0 {
		return 0
	}
	return d
}

// AuditEntry is one row of the unified log table. The same table records
// free-text audit messages and migration-applied markers (operation
// "migration_applied" with the version string in Target).
type AuditEntry struct {
	ID        int64
	Date      time.Time
	Operation string
	Target    string
	Message   string
}
