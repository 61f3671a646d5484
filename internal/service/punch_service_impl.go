package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alexanderramin/punchlog/internal/config"
	"github.com/alexanderramin/punchlog/internal/db"
	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/pairing"
	"github.com/alexanderramin/punchlog/internal/repository"
	"github.com/alexanderramin/punchlog/internal/timecalc"
)

type punchService struct {
	ledger   repository.LedgerRepo
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	cfg      config.Config
}

func NewPunchService(ledger repository.LedgerRepo, sessions repository.SessionRepo, uow db.UnitOfWork, cfg config.Config) PunchService {
	return &punchService{ledger: ledger, sessions: sessions, uow: uow, cfg: cfg}
}

func (s *punchService) AddPunch(ctx context.Context, req AddPunchRequest) (*AddPunchResult, error) {
	if _, err := domain.ParseDate(req.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := domain.ParseClock(req.Clock); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !domain.ValidKinds[string(req.Kind)] {
		return nil, fmt.Errorf("%w: invalid kind %q (expected in or out)", ErrValidation, req.Kind)
	}
	pos := req.Position
	if pos == "" {
		pos = domain.Position(s.cfg.DefaultPosition)
	}
	if !domain.ValidPositions[string(pos)] {
		return nil, fmt.Errorf("%w: invalid position %q", ErrValidation, pos)
	}
	if req.Lunch < 0 || req.Lunch > s.cfg.MaxLunchBreak {
		return nil, fmt.Errorf("%w: lunch break %d out of range [0, %d]", ErrValidation, req.Lunch, s.cfg.MaxLunchBreak)
	}
	if req.Kind == domain.KindIn && req.Lunch != 0 {
		return nil, fmt.Errorf("%w: lunch break belongs on the out punch", ErrValidation)
	}

	opID := uuid.New().String()
	result := &AddPunchResult{}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLedger := repository.NewSQLiteLedgerRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)

		p := &domain.Punch{
			Date:       req.Date,
			Clock:      req.Clock,
			Kind:       req.Kind,
			Position:   pos,
			LunchBreak: req.Lunch,
			Source:     domain.SourceCLI,
			Meta:       "op=" + opID,
		}
		created, err := txLedger.EnsureEvent(ctx, p)
		if err != nil {
			return err
		}
		if created && p.Kind == domain.KindIn {
			if err := s.inferLunch(ctx, txLedger, p); err != nil {
				return err
			}
		}

		sess, err := reproject(ctx, txLedger, txSessions, req.Date)
		if err != nil {
			return err
		}

		if created {
			err := txAudit.Append(ctx, &domain.AuditEntry{
				Operation: "add",
				Target:    req.Date,
				Message:   fmt.Sprintf("recorded %s punch %s position %s [op=%s]", p.Kind, p.Clock, p.Position, opID),
			})
			if err != nil {
				return err
			}
		}

		punches, err := txLedger.ListByDate(ctx, req.Date)
		if err != nil {
			return err
		}
		result.Created = created
		result.Punch = *p
		result.Day = pairing.Fold(punches)
		result.Session = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// inferLunch fills the lunch break of the previous "out" punch when the
// gap to the new "in" looks like a lunch pause: both punches inside the
// configured window, no break recorded yet, and neither side a holiday.
// The gap is clamped to the configured bounds.
func (s *punchService) inferLunch(ctx context.Context, ledger repository.LedgerRepo, in *domain.Punch) error {
	out, err := ledger.LastOutBefore(ctx, in.Date, in.Clock)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if out.LunchBreak != 0 {
		return nil
	}
	if out.Position == domain.PositionHoliday || in.Position == domain.PositionHoliday {
		return nil
	}
	if out.Clock < s.cfg.LunchWindowStart || in.Clock > s.cfg.LunchWindowEnd {
		return nil
	}
	gap := domain.ClockMinutes(in.Clock) - domain.ClockMinutes(out.Clock)
	if gap <= 0 {
		return nil
	}
	lunch := timecalc.ClampLunch(gap, s.cfg.MinLunchBreak, s.cfg.MaxLunchBreak)
	return ledger.SetLunch(ctx, out.ID, lunch)
}

func (s *punchService) EditPair(ctx context.Context, req EditPairRequest) ([]string, error) {
	if _, err := domain.ParseDate(req.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.In == nil && req.Out == nil && req.Position == nil && req.Lunch == nil {
		return nil, fmt.Errorf("%w: nothing to change", ErrValidation)
	}
	if req.In != nil {
		if _, err := domain.ParseClock(*req.In); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if req.Out != nil {
		if _, err := domain.ParseClock(*req.Out); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if req.Position != nil && !domain.ValidPositions[string(*req.Position)] {
		return nil, fmt.Errorf("%w: invalid position %q", ErrValidation, *req.Position)
	}
	if req.Lunch != nil && (*req.Lunch < 0 || *req.Lunch > s.cfg.MaxLunchBreak) {
		return nil, fmt.Errorf("%w: lunch break %d out of range [0, %d]", ErrValidation, *req.Lunch, s.cfg.MaxLunchBreak)
	}

	opID := uuid.New().String()
	var changes []string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLedger := repository.NewSQLiteLedgerRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)

		punches, err := txLedger.ListByDate(ctx, req.Date)
		if err != nil {
			return err
		}
		row, ok := pairing.FindPair(pairing.Fold(punches), req.PairNo)
		if !ok {
			return fmt.Errorf("pair %d on %s: %w", req.PairNo, req.Date, repository.ErrNotFound)
		}

		// Cross-field check against the pair as it will look afterwards.
		newIn, newOut := row.In, row.Out
		if req.In != nil {
			newIn = *req.In
		}
		if req.Out != nil {
			newOut = *req.Out
		}
		if newIn != "" && newOut != "" && newOut <= newIn {
			return fmt.Errorf("%w: out %s must be after in %s", ErrValidation, newOut, newIn)
		}

		inID, outID := row.InID, row.OutID
		if req.In != nil {
			if inID != 0 {
				if err := txLedger.SetClock(ctx, inID, *req.In); err != nil {
					return err
				}
				changes = append(changes, fmt.Sprintf("in %s -> %s", row.In, *req.In))
			} else {
				p := &domain.Punch{
					Date: req.Date, Clock: *req.In, Kind: domain.KindIn,
					Position: row.Position, Source: domain.SourceCLI, Meta: "op=" + opID,
				}
				if _, err := txLedger.EnsureEvent(ctx, p); err != nil {
					return err
				}
				inID = p.ID
				changes = append(changes, fmt.Sprintf("in added at %s", *req.In))
			}
		}
		if req.Out != nil {
			if outID != 0 {
				if err := txLedger.SetClock(ctx, outID, *req.Out); err != nil {
					return err
				}
				changes = append(changes, fmt.Sprintf("out %s -> %s", row.Out, *req.Out))
			} else {
				p := &domain.Punch{
					Date: req.Date, Clock: *req.Out, Kind: domain.KindOut,
					Position: row.Position, Source: domain.SourceCLI, Meta: "op=" + opID,
				}
				if _, err := txLedger.EnsureEvent(ctx, p); err != nil {
					return err
				}
				outID = p.ID
				changes = append(changes, fmt.Sprintf("out added at %s", *req.Out))
			}
		}
		if req.Lunch != nil {
			if outID == 0 {
				return fmt.Errorf("%w: pair %d has no out punch to carry a lunch break", ErrValidation, req.PairNo)
			}
			if err := txLedger.SetLunch(ctx, outID, *req.Lunch); err != nil {
				return err
			}
			changes = append(changes, fmt.Sprintf("lunch %d -> %d", row.Lunch, *req.Lunch))
		}
		if req.Position != nil {
			for _, id := range []int64{inID, outID} {
				if id == 0 {
					continue
				}
				if err := txLedger.SetPosition(ctx, id, *req.Position); err != nil {
					return err
				}
			}
			changes = append(changes, fmt.Sprintf("position %s -> %s", row.Position, *req.Position))
		}

		if _, err := reproject(ctx, txLedger, txSessions, req.Date); err != nil {
			return err
		}
		return txAudit.Append(ctx, &domain.AuditEntry{
			Operation: "edit",
			Target:    req.Date,
			Message:   fmt.Sprintf("edited pair %d: %v [op=%s]", req.PairNo, changes, opID),
		})
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func (s *punchService) DeletePair(ctx context.Context, date string, pairNo int) (int, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	opID := uuid.New().String()
	removed := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLedger := repository.NewSQLiteLedgerRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)

		punches, err := txLedger.ListByDate(ctx, date)
		if err != nil {
			return err
		}
		row, ok := pairing.FindPair(pairing.Fold(punches), pairNo)
		if !ok {
			return fmt.Errorf("pair %d on %s: %w", pairNo, date, repository.ErrNotFound)
		}

		var ids []int64
		for _, id := range []int64{row.InID, row.OutID} {
			if id != 0 {
				ids = append(ids, id)
			}
		}
		if err := txLedger.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		removed = len(ids)

		if _, err := reproject(ctx, txLedger, txSessions, date); err != nil {
			return err
		}
		return txAudit.Append(ctx, &domain.AuditEntry{
			Operation: "del",
			Target:    date,
			Message:   fmt.Sprintf("deleted pair %d (%d punches) [op=%s]", pairNo, removed, opID),
		})
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *punchService) DeleteDate(ctx context.Context, date string) (int64, int64, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	opID := uuid.New().String()
	var removed, aggregates int64
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLedger := repository.NewSQLiteLedgerRepo(tx)
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txAudit := repository.NewSQLiteAuditRepo(tx)

		n, err := txLedger.DeleteByDate(ctx, date)
		if err != nil {
			return err
		}
		removed = n
		aggregates, err = txSessions.DeleteByDate(ctx, date)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		return txAudit.Append(ctx, &domain.AuditEntry{
			Operation: "del",
			Target:    date,
			Message:   fmt.Sprintf("deleted all %d punches [op=%s]", n, opID),
		})
	})
	if err != nil {
		return 0, 0, err
	}
	return removed, aggregates, nil
}

func (s *punchService) PunchesByDate(ctx context.Context, date string) ([]pairing.Paired, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	punches, err := s.ledger.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return pairing.Fold(punches), nil
}

func (s *punchService) PunchesFiltered(ctx context.Context, period string, pos domain.Position) ([]pairing.Paired, error) {
	if pos != "" && !domain.ValidPositions[string(pos)] {
		return nil, fmt.Errorf("%w: invalid position %q", ErrValidation, pos)
	}
	punches, err := s.ledger.ListFiltered(ctx, period, pos)
	if err != nil {
		return nil, err
	}
	return pairing.Fold(punches), nil
}
