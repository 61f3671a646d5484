package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/punchlog/internal/cli/formatter"
	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/pairing"
)

func newListCmd(app *App) *cobra.Command {
	var period string
	var position domain.Position
	var raw bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, optionally filtered by period and position",
		Long: `List the aggregate day view. --period accepts a year (YYYY) or a
month (YYYY-MM). With --raw the underlying punches are listed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if raw {
				paired, err := app.Punches.PunchesFiltered(ctx, period, position)
				if err != nil {
					return err
				}
				for _, date := range pairedDates(paired) {
					fmt.Print(formatter.FormatDay(date, byDate(paired, date)))
				}
				if len(paired) == 0 {
					fmt.Print(formatter.Dim("no punches recorded") + "\n")
				}
				return nil
			}

			views, err := app.Sessions.Sessions(ctx, period, position)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatSessions(views))
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "Restrict to a year (YYYY) or month (YYYY-MM)")
	cmd.Flags().Var(newPositionValue(&position), "position", "Restrict to a position code (O|R|H|C|M)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Show raw punches instead of sessions")

	return cmd
}

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day DATE",
		Short: "Show one date's punches grouped into pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paired, err := app.Punches.PunchesByDate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatDay(args[0], paired))
			return nil
		},
	}
	return cmd
}

func pairedDates(paired []pairing.Paired) []string {
	var dates []string
	seen := make(map[string]bool)
	for _, p := range paired {
		if !seen[p.Date] {
			seen[p.Date] = true
			dates = append(dates, p.Date)
		}
	}
	return dates
}

func byDate(paired []pairing.Paired, date string) []pairing.Paired {
	var day []pairing.Paired
	for _, p := range paired {
		if p.Date == date {
			day = append(day, p)
		}
	}
	return day
}
