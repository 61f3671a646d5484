package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/pairing"
)

// ErrValidation wraps all input-rejection errors. Operations validate
// before touching the database, so a validation failure never leaves a
// partial write behind.
var ErrValidation = errors.New("validation failed")

// AddPunchRequest describes one punch to record. Position and Lunch may
// be zero-valued; Position falls back to the configured default and
// Lunch applies only to "out" punches.
type AddPunchRequest struct {
	Date     string
	Clock    string
	Kind     domain.Kind
	Position domain.Position
	Lunch    int
}

// AddPunchResult reports what a punch recorded: whether a new ledger row
// was created (false when the identical punch already existed), the
// day's punches after re-pairing, and the rebuilt aggregate row.
type AddPunchResult struct {
	Created bool
	Punch   domain.Punch
	Day     []pairing.Paired
	Session *domain.Session
}

// EditPairRequest describes a targeted change to one pair of a day.
// Nil fields are left untouched. Setting In or Out on a side the pair
// does not have creates the missing counterpart punch.
type EditPairRequest struct {
	Date     string
	PairNo   int
	In       *string
	Out      *string
	Position *domain.Position
	Lunch    *int
}

// PunchService records and reconciles raw punches. All mutations run in
// a single transaction that also rebuilds the date's aggregate row, so
// ledger and aggregate cannot drift.
type PunchService interface {
	AddPunch(ctx context.Context, req AddPunchRequest) (*AddPunchResult, error)
	EditPair(ctx context.Context, req EditPairRequest) ([]string, error)
	DeletePair(ctx context.Context, date string, pairNo int) (int, error)
	DeleteDate(ctx context.Context, date string) (events, aggregates int64, err error)
	PunchesByDate(ctx context.Context, date string) ([]pairing.Paired, error)
	PunchesFiltered(ctx context.Context, period string, pos domain.Position) ([]pairing.Paired, error)
}

// SessionView decorates an aggregate row with derived times. For open
// sessions ExpectedExit names the clock at which the nominal work time
// is fulfilled; for closed ones Surplus is the signed overtime in
// minutes.
type SessionView struct {
	domain.Session
	Complete     bool
	ExpectedExit string
	Surplus      int
}

// SessionService reads the aggregate day view.
type SessionService interface {
	Sessions(ctx context.Context, period string, pos domain.Position) ([]SessionView, error)
	SessionByDate(ctx context.Context, date string) (*SessionView, error)
	SessionByID(ctx context.Context, id int64) (*SessionView, error)
}

// AuditService reads the operation log.
type AuditService interface {
	Entries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
