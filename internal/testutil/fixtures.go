package testutil

import "github.com/alexanderramin/punchlog/internal/domain"

// NewTestPunch builds a punch with sensible defaults for tests.
func NewTestPunch(date, clock string, kind domain.Kind) *domain.Punch {
	return &domain.Punch{
		Date:     date,
		Clock:    clock,
		Kind:     kind,
		Position: domain.PositionOffice,
		Source:   domain.SourceCLI,
	}
}

// NewTestSession builds a closed aggregate session row for tests.
func NewTestSession(date string) *domain.Session {
	return &domain.Session{
		Date:     date,
		Position: domain.PositionOffice,
		Start:    "09:00",
		Lunch:    30,
		End:      "17:30",
	}
}
