package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newDelCmd(app *App) *cobra.Command {
	var date string
	var pairNo int
	var yes bool

	cmd := &cobra.Command{
		Use:   "del",
		Short: "Delete one pair or all punches of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			target := fmt.Sprintf("all punches on %s", date)
			if cmd.Flags().Changed("pair") {
				target = fmt.Sprintf("pair %d on %s", pairNo, date)
			}
			ok, err := confirmDelete(app, target, yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted")
				return nil
			}

			if cmd.Flags().Changed("pair") {
				removed, err := app.Punches.DeletePair(ctx, date, pairNo)
				if err != nil {
					return err
				}
				fmt.Printf("Deleted pair %d on %s (%d punches)\n", pairNo, date, removed)
				return nil
			}

			removed, aggregates, err := app.Punches.DeleteDate(ctx, date)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d punches and %d session rows on %s\n", removed, aggregates, date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&pairNo, "pair", 0, "Delete only this pair number")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// confirmDelete prompts before a destructive operation. Suppressed by
// --yes and when stdin is not a terminal (scripts answer no by flag).
func confirmDelete(app *App, target string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if app.IsInteractive != nil && !app.IsInteractive() {
		return false, fmt.Errorf("refusing to delete %s without --yes in non-interactive mode", target)
	}

	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s?", target)).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
