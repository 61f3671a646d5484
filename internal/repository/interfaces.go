package repository

import (
	"context"

	"github.com/alexanderramin/punchlog/internal/domain"
)

// LedgerRepo is the append-mostly store of raw in/out punches.
type LedgerRepo interface {
	Append(ctx context.Context, p *domain.Punch) error
	GetByID(ctx context.Context, id int64) (*domain.Punch, error)
	GetByUniq(ctx context.Context, date, clock string, kind domain.Kind) (*domain.Punch, error)
	EnsureEvent(ctx context.Context, p *domain.Punch) (bool, error)
	ListByDate(ctx context.Context, date string) ([]domain.Punch, error)
	ListFiltered(ctx context.Context, period string, pos domain.Position) ([]domain.Punch, error)
	LastOutBefore(ctx context.Context, date, clock string) (*domain.Punch, error)
	SetClock(ctx context.Context, id int64, clock string) error
	SetPosition(ctx context.Context, id int64, pos domain.Position) error
	SetLunch(ctx context.Context, id int64, minutes int) error
	SetPair(ctx context.Context, id int64, pair int) error
	DeleteByIDs(ctx context.Context, ids []int64) error
	DeleteByDate(ctx context.Context, date string) (int64, error)
}

// SessionRepo is the one-row-per-date aggregate view rebuilt from the
// ledger after every write.
type SessionRepo interface {
	Upsert(ctx context.Context, s *domain.Session) error
	GetByDate(ctx context.Context, date string) (*domain.Session, error)
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context, period string, pos domain.Position) ([]domain.Session, error)
	DeleteByDate(ctx context.Context, date string) (int64, error)
}

// AuditRepo records operations in the unified log table.
type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
