package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/punchlog/internal/cli"
	"github.com/alexanderramin/punchlog/internal/config"
	"github.com/alexanderramin/punchlog/internal/db"
	"github.com/alexanderramin/punchlog/internal/repository"
	"github.com/alexanderramin/punchlog/internal/service"
	"github.com/alexanderramin/punchlog/internal/timecalc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("PUNCHLOG_CONFIG")
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if _, err := timecalc.ParseWorkDuration(cfg.WorkDuration); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// DB path: env var, then config, then default ~/.punchlog/punchlog.db.
	dbPath := os.Getenv("PUNCHLOG_DB")
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}
	if dbPath == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		dbPath = filepath.Join(dir, "punchlog.db")
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Migrations run before anything else; some steps also upgrade the
	// config file, so the loaded config may predate them on first run.
	if err := db.Migrate(database, db.Env{ConfigPath: cfgPath}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	ledgerRepo := repository.NewSQLiteLedgerRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Punches:    service.NewPunchService(ledgerRepo, sessionRepo, uow, cfg),
		Sessions:   service.NewSessionService(sessionRepo, cfg),
		Audit:      service.NewAuditService(auditRepo),
		ConfigPath: cfgPath,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}
