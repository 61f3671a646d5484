package service

import (
	"context"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/pairing"
	"github.com/alexanderramin/punchlog/internal/repository"
)

// reproject rebuilds the aggregate row of a date from its punches.
// Every mutation calls this inside its transaction: the row is always a
// full recomputation, never a field patch, so it cannot drift from the
// ledger. A date left without punches loses its row. The stored pair
// numbers are refreshed at the same time.
func reproject(ctx context.Context, ledger repository.LedgerRepo, sessions repository.SessionRepo, date string) (*domain.Session, error) {
	punches, err := ledger.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(punches) == 0 {
		_, err := sessions.DeleteByDate(ctx, date)
		return nil, err
	}

	paired := pairing.Fold(punches)
	for _, p := range paired {
		if p.Punch.Pair != p.PairNo {
			if err := ledger.SetPair(ctx, p.Punch.ID, p.PairNo); err != nil {
				return nil, err
			}
		}
	}

	s := project(date, paired)
	if err := sessions.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// project collapses a date's paired punches into the aggregate row.
// Start is the earliest "in" (falling back to the earliest punch when
// the day opens with an orphan "out"). End is the latest "out" rather
// than the latest punch of any kind: an open trailing "in" must leave
// the row open so the expected exit stays visible. Lunch sums the
// breaks carried by all of the day's "out" punches so a break inferred
// on a midday pair survives later pairs. The position is the day's
// single position, or Mixed when punches disagree.
func project(date string, paired []pairing.Paired) *domain.Session {
	s := &domain.Session{Date: date}

	positions := make(map[domain.Position]bool)
	for _, p := range paired {
		positions[p.Position] = true
		switch p.Kind {
		case domain.KindIn:
			if s.Start == "" || p.Clock < s.Start {
				s.Start = p.Clock
			}
		case domain.KindOut:
			if p.Clock > s.End {
				s.End = p.Clock
			}
			s.Lunch += p.LunchBreak
		}
	}
	if s.Start == "" && len(paired) > 0 {
		s.Start = paired[0].Clock
	}

	if len(positions) == 1 {
		for pos := range positions {
			s.Position = pos
		}
	} else {
		s.Position = domain.PositionMixed
	}
	return s
}
