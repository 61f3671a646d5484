package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/punchlog/internal/config"
	"github.com/alexanderramin/punchlog/internal/repository"
	"github.com/alexanderramin/punchlog/internal/service"
	"github.com/alexanderramin/punchlog/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)

	ledgerRepo := repository.NewSQLiteLedgerRepo(db)
	sessionRepo := repository.NewSQLiteSessionRepo(db)
	auditRepo := repository.NewSQLiteAuditRepo(db)
	cfg := config.Default()

	return &App{
		Punches:       service.NewPunchService(ledgerRepo, sessionRepo, testutil.NewTestUoW(db), cfg),
		Sessions:      service.NewSessionService(sessionRepo, cfg),
		Audit:         service.NewAuditService(auditRepo),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command and captures cobra-level output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAddCmdRecordsPunch(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "--date", "2025-09-20", "--time", "09:00", "--kind", "in")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "add", "--date", "2025-09-20", "--time", "17:00", "--kind", "out", "--lunch", "30")
	require.NoError(t, err)

	sess, err := app.Sessions.SessionByDate(context.Background(), "2025-09-20")
	require.NoError(t, err)
	assert.Equal(t, "09:00", sess.Start)
	assert.Equal(t, "17:00", sess.End)
	assert.Equal(t, 30, sess.Lunch)
}

func TestAddCmdRequiresKind(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "--date", "2025-09-20", "--time", "09:00")
	assert.Error(t, err)
}

func TestAddCmdRejectsUnknownPosition(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add",
		"--date", "2025-09-20", "--time", "09:00", "--kind", "in", "--position", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position")
}

func TestEditCmdUpdatesLunch(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, app, "add", "--date", "2025-09-20", "--time", "09:00", "--kind", "in")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "add", "--date", "2025-09-20", "--time", "17:00", "--kind", "out", "--lunch", "30")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "edit", "--date", "2025-09-20", "--pair", "1", "--lunch", "45")
	require.NoError(t, err)

	sess, err := app.Sessions.SessionByDate(ctx, "2025-09-20")
	require.NoError(t, err)
	assert.Equal(t, 45, sess.Lunch)
}

func TestDelCmdRefusesWithoutYesWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	_, err := executeCmd(t, app, "add", "--date", "2025-09-20", "--time", "09:00", "--kind", "in")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "del", "--date", "2025-09-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	_, err = executeCmd(t, app, "del", "--date", "2025-09-20", "--yes")
	require.NoError(t, err)

	day, err := app.Punches.PunchesByDate(ctx, "2025-09-20")
	require.NoError(t, err)
	assert.Empty(t, day)
}

func TestDelCmdPairOnly(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	for _, punch := range [][]string{
		{"--time", "09:00", "--kind", "in"},
		{"--time", "12:00", "--kind", "out"},
		{"--time", "13:00", "--kind", "in"},
		{"--time", "17:30", "--kind", "out"},
	} {
		args := append([]string{"add", "--date", "2025-09-20"}, punch...)
		_, err := executeCmd(t, app, args...)
		require.NoError(t, err)
	}

	_, err := executeCmd(t, app, "del", "--date", "2025-09-20", "--pair", "1", "--yes")
	require.NoError(t, err)

	day, err := app.Punches.PunchesByDate(ctx, "2025-09-20")
	require.NoError(t, err)
	assert.Len(t, day, 2)
}

func TestInitCmdWritesDefaultConfig(t *testing.T) {
	app := testApp(t)
	app.ConfigPath = filepath.Join(t.TempDir(), "punchlog.yaml")

	_, err := executeCmd(t, app, "init")
	require.NoError(t, err)

	cfg, err := config.Load(app.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	// A second run must not clobber the file unless forced.
	_, err = executeCmd(t, app, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCmd(t, app, "init", "--force")
	require.NoError(t, err)
}

func TestListCmdRejectsBadPeriod(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "list", "--period", "september")
	assert.Error(t, err)
}

func TestRootNoArgsShowsHelp(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "punchlog")
}
