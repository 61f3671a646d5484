package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/punchlog/internal/db"
	"github.com/alexanderramin/punchlog/internal/domain"
)

// punchColumns is the canonical SELECT column list for events.
const punchColumns = `id, date, time, kind, position, lunch_break, pair, source, meta, created_at`

// SQLiteLedgerRepo implements LedgerRepo using a SQLite database.
type SQLiteLedgerRepo struct {
	db db.DBTX
}

// NewSQLiteLedgerRepo creates a new SQLiteLedgerRepo. Pass a transaction
// to scope the repo to it.
func NewSQLiteLedgerRepo(conn db.DBTX) *SQLiteLedgerRepo {
	return &SQLiteLedgerRepo{db: conn}
}

func (r *SQLiteLedgerRepo) Append(ctx context.Context, p *domain.Punch) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Source == "" {
		p.Source = domain.SourceCLI
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (date, time, kind, position, lunch_break, pair, source, meta, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Date, p.Clock, string(p.Kind), string(p.Position), p.LunchBreak, p.Pair,
		p.Source, p.Meta, p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting punch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading punch id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteLedgerRepo) GetByID(ctx context.Context, id int64) (*domain.Punch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+punchColumns+` FROM events WHERE id = ?`, id)
	return r.scanPunch(row)
}

// GetByUniq looks a punch up by its natural identity (date, clock, kind).
func (r *SQLiteLedgerRepo) GetByUniq(ctx context.Context, date, clock string, kind domain.Kind) (*domain.Punch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+punchColumns+` FROM events WHERE date = ? AND time = ? AND kind = ? ORDER BY id LIMIT 1`,
		date, clock, string(kind))
	return r.scanPunch(row)
}

// EnsureEvent inserts the punch unless one with the same date, clock and
// kind already exists. On a hit the existing row is copied into p and
// false is returned; re-running an import therefore changes nothing.
func (r *SQLiteLedgerRepo) EnsureEvent(ctx context.Context, p *domain.Punch) (bool, error) {
	existing, err := r.GetByUniq(ctx, p.Date, p.Clock, p.Kind)
	if err == nil {
		*p = *existing
		return false, nil
	}
	if !isNotFound(err) {
		return false, err
	}
	if err := r.Append(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteLedgerRepo) ListByDate(ctx context.Context, date string) ([]domain.Punch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+punchColumns+` FROM events WHERE date = ? ORDER BY time, id`, date)
	if err != nil {
		return nil, fmt.Errorf("listing punches by date: %w", err)
	}
	defer rows.Close()
	return r.scanPunches(rows)
}

// ListFiltered returns punches restricted by period ("" for all, "YYYY"
// for a year, "YYYY-MM" for a month) and position ("" for all), ordered
// by date and time.
func (r *SQLiteLedgerRepo) ListFiltered(ctx context.Context, period string, pos domain.Position) ([]domain.Punch, error) {
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

	query := `SELECT ` + punchColumns + ` FROM events`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY date, time, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing punches: %w", err)
	}
	defer rows.Close()
	return r.scanPunches(rows)
}

// LastOutBefore returns the latest "out" punch of the date strictly
// before the given clock, used for lunch inference.
func (r *SQLiteLedgerRepo) LastOutBefore(ctx context.Context, date, clock string) (*domain.Punch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+punchColumns+` FROM events
			WHERE date = ? AND kind = 'out' AND time < ?
			ORDER BY time DESC, id DESC LIMIT 1`,
		date, clock)
	return r.scanPunch(row)
}

func (r *SQLiteLedgerRepo) SetClock(ctx context.Context, id int64, clock string) error {
	return r.updateField(ctx, id, `time`, clock)
}

func (r *SQLiteLedgerRepo) SetPosition(ctx context.Context, id int64, pos domain.Position) error {
	return r.updateField(ctx, id, `position`, string(pos))
}

func (r *SQLiteLedgerRepo) SetLunch(ctx context.Context, id int64, minutes int) error {
	return r.updateField(ctx, id, `lunch_break`, minutes)
}

func (r *SQLiteLedgerRepo) SetPair(ctx context.Context, id int64, pair int) error {
	return r.updateField(ctx, id, `pair`, pair)
}

func (r *SQLiteLedgerRepo) updateField(ctx context.Context, id int64, column string, value interface{}) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("updating punch %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("punch %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteLedgerRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("deleting punches: %w", err)
	}
	return nil
}

func (r *SQLiteLedgerRepo) DeleteByDate(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE date = ?`, date)
	if err != nil {
		return 0, fmt.Errorf("deleting punches by date: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteLedgerRepo) scanPunch(row *sql.Row) (*domain.Punch, error) {
	var (
		p         domain.Punch
		kind, pos string
		meta      sql.NullString
		createdAt string
	)
	err := row.Scan(&p.ID, &p.Date, &p.Clock, &kind, &pos, &p.LunchBreak, &p.Pair,
		&p.Source, &meta, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("punch: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning punch: %w", err)
	}
	p.Kind = domain.Kind(kind)
	p.Position = domain.Position(pos)
	p.Meta = meta.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func (r *SQLiteLedgerRepo) scanPunches(rows *sql.Rows) ([]domain.Punch, error) {
	var punches []domain.Punch
	for rows.Next() {
		var (
			p         domain.Punch
			kind, pos string
			meta      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Date, &p.Clock, &kind, &pos, &p.LunchBreak, &p.Pair,
			&p.Source, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning punch: %w", err)
		}
		p.Kind = domain.Kind(kind)
		p.Position = domain.Position(pos)
		p.Meta = meta.String
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating punches: %w", err)
	}
	return punches, nil
}
