package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMigrateFreshDatabase(t *testing.T) {
	database := openTestDB(t)
	require.NoError(t, Migrate(database, Env{}))

	ctx := context.Background()
	for _, table := range []string{"work_sessions", "log", "events"} {
		exists, err := tableExists(ctx, database, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}

	// Every registered version gets a marker row.
	var count int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM log WHERE operation = 'migration_applied'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(registry), count)
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := openTestDB(t)
	require.NoError(t, Migrate(database, Env{}))

	var before int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM log`).Scan(&before))

	require.NoError(t, Migrate(database, Env{}))

	var after int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM log`).Scan(&after))
	assert.Equal(t, before, after, "second run must not append marker rows")
}

func TestMigrateRebuildsNarrowPositionCheck(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	// First-generation schema: only office and remote were valid.
	_, err := database.ExecContext(ctx, `
		CREATE TABLE work_sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT NOT NULL,
			position    TEXT NOT NULL DEFAULT 'O' CHECK(position IN ('O','R')),
			start_time  TEXT NOT NULL DEFAULT '',
			lunch_break INTEGER NOT NULL DEFAULT 0,
			end_time    TEXT NOT NULL DEFAULT ''
		)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`CREATE INDEX idx_work_sessions_date ON work_sessions(date)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`CREATE INDEX idx_work_sessions_position ON work_sessions(position)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`INSERT INTO work_sessions (date, position, start_time, lunch_break, end_time)
			VALUES ('2025-09-20', 'R', '09:00', 30, '17:00')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(database, Env{}))

	// Widened CHECK accepts the new codes and preserved the old row.
	_, err = database.ExecContext(ctx,
		`INSERT INTO work_sessions (date, position) VALUES ('2025-09-21', 'M')`)
	require.NoError(t, err)

	var start string
	err = database.QueryRowContext(ctx,
		`SELECT start_time FROM work_sessions WHERE date = '2025-09-20'`).Scan(&start)
	require.NoError(t, err)
	assert.Equal(t, "09:00", start)

	// The table swap must not lose the indexes.
	var indexes int
	err = database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index'
			AND name IN ('idx_work_sessions_date', 'idx_work_sessions_position')`).Scan(&indexes)
	require.NoError(t, err)
	assert.Equal(t, 2, indexes)
}

func TestMigrateUpgradesLegacyLogTable(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `
		CREATE TABLE log (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			date     TEXT NOT NULL,
			function TEXT NOT NULL,
			message  TEXT NOT NULL
		)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`INSERT INTO log (date, function, message) VALUES ('2025-01-01T08:00:00Z', 'add', 'added a session')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(database, Env{}))

	var operation, target, message string
	err = database.QueryRowContext(ctx,
		`SELECT operation, target, message FROM log WHERE id = 1`).Scan(&operation, &target, &message)
	require.NoError(t, err)
	assert.Equal(t, "add", operation)
	assert.Equal(t, "", target)
	assert.Equal(t, "added a session", message)
}

func TestMigrateBackfillsEventsFromSessions(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `
		CREATE TABLE work_sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			date        TEXT NOT NULL,
			position    TEXT NOT NULL DEFAULT 'O' CHECK(position IN ('O','R','H','C','M')),
			start_time  TEXT NOT NULL DEFAULT '',
			lunch_break INTEGER NOT NULL DEFAULT 0,
			end_time    TEXT NOT NULL DEFAULT ''
		)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`INSERT INTO work_sessions (date, position, start_time, lunch_break, end_time) VALUES
			('2025-09-20', 'O', '09:00', 30, '17:00'),
			('2025-09-21', 'R', '08:30', 0, '')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(database, Env{}))

	var total int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM events WHERE source = 'migration'`).Scan(&total))
	assert.Equal(t, 3, total, "two punches for the closed day, one for the open one")

	var lunch int
	err = database.QueryRowContext(ctx,
		`SELECT lunch_break FROM events WHERE date = '2025-09-20' AND kind = 'out'`).Scan(&lunch)
	require.NoError(t, err)
	assert.Equal(t, 30, lunch, "lunch lives on the out punch")

	// Running again must not duplicate backfilled punches.
	_, err = database.ExecContext(ctx,
		`DELETE FROM log WHERE target = '20250910_0006_backfill_events_from_sessions'`)
	require.NoError(t, err)
	require.NoError(t, Migrate(database, Env{}))

	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM events WHERE source = 'migration'`).Scan(&total))
	assert.Equal(t, 3, total)
}

func TestMigrateImportsSchemaMigrationsTable(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `
		CREATE TABLE schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at)
			VALUES ('20250612_0001_extend_position_holiday', '2025-06-12T10:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(database, Env{}))

	exists, err := tableExists(ctx, database, "schema_migrations")
	require.NoError(t, err)
	assert.False(t, exists, "legacy table should be dropped")

	var count int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM log WHERE operation = 'migration_applied'
			AND target = '20250612_0001_extend_position_holiday'`).Scan(&count))
	assert.Equal(t, 1, count, "legacy version imported once, not re-applied")
}

func TestMigrateWritesConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "punchlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_position: R\nmin_duration_lunch_break: 45\n"), 0o644))

	database := openTestDB(t)
	require.NoError(t, Migrate(database, Env{ConfigPath: path}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := make(map[string]any)
	require.NoError(t, yaml.Unmarshal(raw, &doc))

	assert.Equal(t, "R", doc["default_position"], "existing keys untouched")
	assert.Equal(t, 45, doc["min_duration_lunch_break"], "existing values untouched")
	assert.Equal(t, 90, doc["max_duration_lunch_break"])
	assert.Equal(t, "12:00", doc["lunch_window_start"])
	assert.Equal(t, "14:30", doc["lunch_window_end"])
}
