package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migration is one named, idempotent upgrade step. Steps are registered
// in a fixed order at compile time and executed in array order; each Up
// runs inside its own transaction together with the marker row that
// records it as applied, so a failing step aborts the run without
// marking itself or later steps applied.
type Migration struct {
	Version     string
	Description string
	Up          func(ctx context.Context, tx DBTX, env Env) error
}

// Env carries the out-of-database state migrations may touch. ConfigPath
// may be empty (e.g. in tests), in which case config-file steps are
// no-ops, matching their behavior when the file does not exist.
type Env struct {
	ConfigPath string
}

// registry is the static ordered migration table. A version is applied
// iff a log row with operation 'migration_applied' and that exact
// version string exists; there is no separate bookkeeping table.
var registry = []Migration{
	{
		Version:     "20250612_0001_extend_position_holiday",
		Description: "Extend work_sessions position CHECK to include 'H' (Holiday)",
		Up:          migrateExtendPositionHoliday,
	},
	{
		Version:     "20250720_0002_extend_position_onsite",
		Description: "Extend work_sessions position CHECK to include 'C' (On-Site)",
		Up:          migrateExtendPositionOnSite,
	},
	{
		Version:     "20250802_0003_config_lunch_bounds",
		Description: "Add min/max_duration_lunch_break defaults to the config file",
		Up:          migrateConfigLunchBounds,
	},
	{
		Version:     "20250815_0004_work_sessions_indexes",
		Description: "Add indexes on work_sessions.date and work_sessions.position",
		Up:          migrateWorkSessionsIndexes,
	},
	{
		Version:     "20250901_0005_create_events_table",
		Description: "Create events table storing in/out punches with position and lunch",
		Up:          migrateCreateEvents,
	},
	{
		Version:     "20250910_0006_backfill_events_from_sessions",
		Description: "Backfill events from legacy work_sessions rows (source='migration')",
		Up:          migrateBackfillEvents,
	},
	{
		Version:     "20250928_0007_extend_position_mixed",
		Description: "Extend work_sessions position CHECK to include 'M' (Mixed)",
		Up:          migrateExtendPositionMixed,
	},
	{
		Version:     "20251005_0008_unify_schema_migrations",
		Description: "Import legacy schema_migrations rows into log and drop the table",
		Up:          migrateUnifySchemaMigrations,
	},
	{
		Version:     "20251012_0009_config_lunch_window",
		Description: "Add auto-lunch window defaults to the config file",
		Up:          migrateConfigLunchWindow,
	},
}

// Migrate ensures the base tables exist, upgrades any legacy log schema,
// then executes every registered migration whose version is not yet
// recorded, in order. Call once at startup before any other operation.
// A step failure is fatal to the run and leaves all later steps pending;
// re-invocation resumes from the failed step.
func Migrate(database *sql.DB, env Env) error {
	ctx := context.Background()

	if err := upgradeLegacyLog(ctx, database); err != nil {
		return fmt.Errorf("upgrading legacy log table: %w", err)
	}

	// Base shape for fresh databases. Existing databases keep whatever
	// shape their last applied migration produced; the structural steps
	// below detect and rebuild old CHECK constraints.
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS work_sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT NOT NULL,
			position    TEXT NOT NULL DEFAULT 'O' CHECK(position IN ('O','R','H','C','M')),
			start_time  TEXT NOT NULL DEFAULT '',
			lunch_break INTEGER NOT NULL DEFAULT 0,
			end_time    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS log (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			date      TEXT NOT NULL,
			operation TEXT NOT NULL,
			target    TEXT DEFAULT '',
			message   TEXT NOT NULL
		)`,
	} {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating base tables: %w", err)
		}
	}

	applied, err := appliedVersions(ctx, database)
	if err != nil {
		return fmt.Errorf("reading applied migrations: %w", err)
	}

	uow := NewSQLiteUnitOfWork(database)
	for _, m := range registry {
		if applied[m.Version] {
			continue
		}
		err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
			if err := m.Up(ctx, tx, env); err != nil {
				return err
			}
			return markApplied(ctx, tx, m.Version)
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", m.Version, err)
		}
	}
	return nil
}

// upgradeLegacyLog rebuilds a first-generation log table (free-text
// 'function' column) into the unified operation/target shape, and adds
// the target column where only that is missing. Safe on fresh databases.
func upgradeLegacyLog(ctx context.Context, database *sql.DB) error {
	exists, err := tableExists(ctx, database, "log")
	if err != nil || !exists {
		return err
	}

	cols, err := tableColumns(ctx, database, "log")
	if err != nil {
		return err
	}

	switch {
	case cols["function"] && !cols["operation"]:
		// Rebuild-and-copy: SQLite cannot rename a column while also
		// changing the table's constraints, so swap in a new table.
		uow := NewSQLiteUnitOfWork(database)
		return uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
			stmts := []string{
				`ALTER TABLE log RENAME TO log_old`,
				`CREATE TABLE log (
					id        INTEGER PRIMARY KEY AUTOINCREMENT,
					date      TEXT NOT NULL,
					operation TEXT NOT NULL,
					target    TEXT DEFAULT '',
					message   TEXT NOT NULL
				)`,
				`INSERT INTO log (id, date, operation, message)
					SELECT id, date, function, message FROM log_old`,
				`DROP TABLE log_old`,
			}
			for _, s := range stmts {
				if _, err := tx.ExecContext(ctx, s); err != nil {
					return err
				}
			}
			return nil
		})
	case cols["operation"] && !cols["target"]:
		_, err := database.ExecContext(ctx, `ALTER TABLE log ADD COLUMN target TEXT DEFAULT ''`)
		return err
	}
	return nil
}

// appliedVersions returns the set of already-applied version strings,
// read from the unified log table and, when present, from the legacy
// schema_migrations table that migration 0008 retires.
func appliedVersions(ctx context.Context, database *sql.DB) (map[string]bool, error) {
	applied := make(map[string]bool)

	if exists, err := tableExists(ctx, database, "schema_migrations"); err != nil {
		return nil, err
	} else if exists {
		rows, err := database.QueryContext(ctx, `SELECT version FROM schema_migrations`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			applied[v] = true
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	rows, err := database.QueryContext(ctx,
		`SELECT target FROM log WHERE operation IN ('migration_applied','migration') AND target != ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// markApplied records a migration version in the log. Runs in the same
// transaction as the step itself.
func markApplied(ctx context.Context, tx DBTX, version string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO log (date, operation, target, message) VALUES (?, 'migration_applied', ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), version, "Applied migration "+version)
	return err
}

// rebuildWorkSessions swaps work_sessions for a copy whose position
// CHECK accepts the given codes. Structural migration: create new shape,
// copy rows, drop old, rename (embedded SQLite cannot alter a CHECK in
// place).
func rebuildWorkSessions(ctx context.Context, tx DBTX, codes string) error {
	stmts := []string{
		`ALTER TABLE work_sessions RENAME TO work_sessions_old`,
		fmt.Sprintf(`CREATE TABLE work_sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT NOT NULL,
			position    TEXT NOT NULL DEFAULT 'O' CHECK(position IN (%s)),
			start_time  TEXT NOT NULL DEFAULT '',
			lunch_break INTEGER NOT NULL DEFAULT 0,
			end_time    TEXT NOT NULL DEFAULT ''
		)`, codes),
		`INSERT INTO work_sessions (id, date, position, start_time, lunch_break, end_time)
			SELECT id, date, position, start_time, lunch_break, end_time FROM work_sessions_old`,
		`DROP TABLE work_sessions_old`,
		// Dropping the renamed table takes its indexes with it.
		`CREATE INDEX IF NOT EXISTS idx_work_sessions_date ON work_sessions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_work_sessions_position ON work_sessions(position)`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// positionCheckLacks reports whether the work_sessions CREATE statement
// has a position CHECK that does not yet accept the given code.
func positionCheckLacks(ctx context.Context, tx DBTX, code string) (bool, error) {
	var createSQL sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type='table' AND name='work_sessions'`).Scan(&createSQL)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !createSQL.Valid {
		return false, nil
	}
	return !strings.Contains(createSQL.String, "'"+code+"'"), nil
}

func migrateExtendPositionHoliday(ctx context.Context, tx DBTX, _ Env) error {
	lacks, err := positionCheckLacks(ctx, tx, "H")
	if err != nil || !lacks {
		return err
	}
	return rebuildWorkSessions(ctx, tx, `'O','R','H'`)
}

func migrateExtendPositionOnSite(ctx context.Context, tx DBTX, _ Env) error {
	lacks, err := positionCheckLacks(ctx, tx, "C")
	if err != nil || !lacks {
		return err
	}
	return rebuildWorkSessions(ctx, tx, `'O','R','H','C'`)
}

func migrateExtendPositionMixed(ctx context.Context, tx DBTX, _ Env) error {
	lacks, err := positionCheckLacks(ctx, tx, "M")
	if err != nil || !lacks {
		return err
	}
	return rebuildWorkSessions(ctx, tx, `'O','R','H','C','M'`)
}

func migrateWorkSessionsIndexes(ctx context.Context, tx DBTX, _ Env) error {
	for _, s := range []string{
		`CREATE INDEX IF NOT EXISTS idx_work_sessions_date ON work_sessions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_work_sessions_position ON work_sessions(position)`,
	} {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func migrateCreateEvents(ctx context.Context, tx DBTX, _ Env) error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT NOT NULL,
			time        TEXT NOT NULL,
			kind        TEXT NOT NULL CHECK(kind IN ('in','out')),
			position    TEXT NOT NULL DEFAULT 'O' CHECK(position IN ('O','R','H','C','M')),
			lunch_break INTEGER NOT NULL DEFAULT 0 CHECK(lunch_break >= 0),
			pair        INTEGER NOT NULL DEFAULT 0,
			source      TEXT NOT NULL DEFAULT 'cli',
			meta        TEXT DEFAULT '',
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date_time ON events(date, time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date_kind ON events(date, kind)`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// migrateBackfillEvents generates ledger rows from legacy aggregate rows.
// Idempotent by construction: prior backfill is detected with a
// (date,time,kind,source) lookup rather than a separate done flag, so a
// partially completed run resumes where it stopped.
func migrateBackfillEvents(ctx context.Context, tx DBTX, _ Env) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT date, position, start_time, lunch_break, end_time FROM work_sessions`)
	if err != nil {
		return err
	}
	type legacyRow struct {
		date, position, start, end string
		lunch                      int
	}
	var sessions []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.date, &r.position, &r.start, &r.lunch, &r.end); err != nil {
			rows.Close()
			return err
		}
		sessions = append(sessions, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	insert := func(date, clock, kind, position string, lunch int) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM events WHERE date = ? AND time = ? AND kind = ? AND source = 'migration' LIMIT 1`,
			date, clock, kind).Scan(&id)
		if err == nil {
			return nil // already backfilled
		}
		if err != sql.ErrNoRows {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (date, time, kind, position, lunch_break, source, meta, created_at)
				VALUES (?, ?, ?, ?, ?, 'migration', '', ?)`,
			date, clock, kind, position, lunch, now)
		return err
	}

	for _, s := range sessions {
		if strings.TrimSpace(s.start) != "" {
			if err := insert(s.date, s.start, "in", s.position, 0); err != nil {
				return err
			}
		}
		if strings.TrimSpace(s.end) != "" {
			if err := insert(s.date, s.end, "out", s.position, s.lunch); err != nil {
				return err
			}
		}
	}
	return nil
}

func migrateUnifySchemaMigrations(ctx context.Context, tx DBTX, _ Env) error {
	var name string
	err := tx.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name='schema_migrations'`).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO log (date, operation, target, message)
		SELECT applied_at, 'migration_applied', version, 'Imported migration ' || version || ' from schema_migrations'
		FROM schema_migrations
	`); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DROP TABLE schema_migrations`)
	return err
}

func migrateConfigLunchBounds(ctx context.Context, tx DBTX, env Env) error {
	return upsertConfigKeys(env.ConfigPath, map[string]any{
		"min_duration_lunch_break": 30,
		"max_duration_lunch_break": 90,
	})
}

func migrateConfigLunchWindow(ctx context.Context, tx DBTX, env Env) error {
	return upsertConfigKeys(env.ConfigPath, map[string]any{
		"lunch_window_start": "12:00",
		"lunch_window_end":   "14:30",
	})
}

func tableExists(ctx context.Context, q DBTX, name string) (bool, error) {
	var n string
	err := q.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func tableColumns(ctx context.Context, q DBTX, name string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var cid int
		var colName, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[colName] = true
	}
	return cols, rows.Err()
}
