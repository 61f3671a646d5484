package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/punchlog/internal/config"
)

func newInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.ConfigPath == "" {
				return fmt.Errorf("no config path configured")
			}
			if !force {
				if _, err := os.Stat(app.ConfigPath); err == nil {
					return fmt.Errorf("config %s already exists, use --force to overwrite", app.ConfigPath)
				}
			}
			if err := config.Default().Save(app.ConfigPath); err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", app.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
