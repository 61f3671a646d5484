package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/punchlog/internal/db"
	"github.com/alexanderramin/punchlog/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo on the unified log table.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo. Pass a transaction
// to scope the repo to it.
func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO log (date, operation, target, message) VALUES (?, ?, ?, ?)`,
		e.Date.Format(time.RFC3339), e.Operation, e.Target, e.Message)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading log id: %w", err)
	}
	e.ID = id
	return nil
}

// List returns the newest entries first. A limit of 0 returns all rows.
func (r *SQLiteAuditRepo) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	query := `SELECT id, date, operation, target, message FROM log ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e      domain.AuditEntry
			date   string
			target sql.NullString
		)
		if err := rows.Scan(&e.ID, &date, &e.Operation, &target, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		e.Target = target.String
		e.Date, _ = time.Parse(time.RFC3339, date)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log entries: %w", err)
	}
	return entries, nil
}
