package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/punchlog/internal/cli/formatter"
)

func newLogCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the operation log, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Audit.Entries(context.Background(), limit)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatAudit(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show (0 for all)")

	return cmd
}
