package service

import (
	"context"

	"github.com/alexanderramin/punchlog/internal/config"
	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/repository"
	"github.com/alexanderramin/punchlog/internal/timecalc"
)

type sessionService struct {
	sessions repository.SessionRepo
	cfg      config.Config
	workMin  int
}

// NewSessionService creates the aggregate read service. The nominal
// work duration comes from the config; main validates it at startup, so
// the fallback here only guards constructions with a zero Config.
func NewSessionService(sessions repository.SessionRepo, cfg config.Config) SessionService {
	workMin, err := timecalc.ParseWorkDuration(cfg.WorkDuration)
	if err != nil {
		workMin = 480
	}
	return &sessionService{sessions: sessions, cfg: cfg, workMin: workMin}
}

func (s *sessionService) Sessions(ctx context.Context, period string, pos domain.Position) ([]SessionView, error) {
	sessions, err := s.sessions.List(ctx, period, pos)
	if err != nil {
		return nil, err
	}
	views := make([]SessionView, len(sessions))
	for i, sess := range sessions {
		views[i] = s.decorate(sess)
	}
	return views, nil
}

func (s *sessionService) SessionByDate(ctx context.Context, date string) (*SessionView, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	v := s.decorate(*sess)
	return &v, nil
}

func (s *sessionService) SessionByID(ctx context.Context, id int64) (*SessionView, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.decorate(*sess)
	return &v, nil
}

func (s *sessionService) decorate(sess domain.Session) SessionView {
	v := SessionView{Session: sess, Complete: sess.End != ""}

	if sess.Position == domain.PositionHoliday {
		// A holiday fulfills the day; no expected exit, no surplus.
		return v
	}
	if !v.Complete {
		if sess.Start != "" {
			v.ExpectedExit, _ = timecalc.ExpectedExit(sess.Start, s.workMin, sess.Lunch, s.cfg.MinLunchBreak)
		}
		return v
	}

	crosses := timecalc.CrossesLunchWindow(sess.Start, sess.End, s.cfg.LunchWindowStart, s.cfg.LunchWindowEnd)
	lunch := timecalc.EffectiveLunch(sess.Position, sess.Lunch, crosses, s.cfg.MinLunchBreak)
	v.Surplus = timecalc.Surplus(sess.Start, sess.End, lunch, s.workMin)
	return v
}
