// Package cli wires the cobra command tree to the services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/punchlog/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Punches  service.PunchService
	Sessions service.SessionService
	Audit    service.AuditService

	// ConfigPath is where "init" scaffolds the YAML config file.
	ConfigPath string

	// IsInteractive reports whether stdin is a terminal; destructive
	// commands skip their confirmation prompt when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "punchlog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "punchlog",
		Short:         "Work punch ledger and session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInitCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newDelCmd(app),
		newListCmd(app),
		newDayCmd(app),
		newLogCmd(app),
	)

	return root
}
