package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/punchlog/internal/db"
	"github.com/alexanderramin/punchlog/internal/domain"
)

// sessionColumns is the canonical SELECT column list for work_sessions.
const sessionColumns = `id, date, position, start_time, lunch_break, end_time`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo. Pass a
// transaction to scope the repo to it.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

// Upsert writes the aggregate row for s.Date, replacing any existing
// row for that date. The row id is preserved across rebuilds so
// external references stay stable.
func (r *SQLiteSessionRepo) Upsert(ctx context.Context, s *domain.Session) error {
	existing, err := r.GetByDate(ctx, s.Date)
	if err != nil && !isNotFound(err) {
		return err
	}
	if err == nil {
		s.ID = existing.ID
		_, err := r.db.ExecContext(ctx,
			`UPDATE work_sessions SET position = ?, start_time = ?, lunch_break = ?, end_time = ?
				WHERE id = ?`,
			string(s.Position), s.Start, s.Lunch, s.End, s.ID)
		if err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO work_sessions (date, position, start_time, lunch_break, end_time)
			VALUES (?, ?, ?, ?, ?)`,
		s.Date, string(s.Position), s.Start, s.Lunch, s.End)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading session id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *SQLiteSessionRepo) GetByDate(ctx context.Context, date string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM work_sessions WHERE date = ?`, date)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM work_sessions WHERE id = ?`, id)
	return r.scanSession(row)
}

// List returns sessions restricted by period ("" for all, "YYYY" for a
// year, "YYYY-MM" for a month) and position ("" for all), ordered by
// date.
func (r *SQLiteSessionRepo) List(ctx context.Context, period string, pos domain.Position) ([]domain.Session, error) {
	var (
		conds []string
		args  []interface{}
	)
	switch len(period) {
	case 0:
	case 4:
		conds = append(conds, `strftime('%Y', date) = ?`)
		args = append(args, period)
	case 7:
		conds = append(conds, `strftime('%Y-%m', date) = ?`)
		args = append(args, period)
	default:
		return nil, fmt.Errorf("invalid period %q (expected YYYY or YYYY-MM)", period)
	}
	if pos != "" {
		conds = append(conds, `position = ?`)
		args = append(args, string(pos))
	}

	query := `SELECT ` + sessionColumns + ` FROM work_sessions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var (
			s   domain.Session
			pos string
		)
		if err := rows.Scan(&s.ID, &s.Date, &pos, &s.Start, &s.Lunch, &s.End); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Position = domain.Position(pos)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) DeleteByDate(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_sessions WHERE date = ?`, date)
	if err != nil {
		return 0, fmt.Errorf("deleting session: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	var (
		s   domain.Session
		pos string
	)
	err := row.Scan(&s.ID, &s.Date, &pos, &s.Start, &s.Lunch, &s.End)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	s.Position = domain.Position(pos)
	return &s, nil
}
