package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/punchlog/internal/cli/formatter"
	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/service"
)

func newAddCmd(app *App) *cobra.Command {
	var date, clock, kind string
	var position domain.Position
	var lunch int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an in or out punch",
		Long: `Record an in or out punch. Re-adding an identical punch is a no-op.
A lunch break can only be set on an out punch; when omitted, a gap
between an out and the next in inside the lunch window is recorded as
the break automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(domain.DateLayout)
			}
			if clock == "" {
				clock = time.Now().Format(domain.ClockLayout)
			}

			res, err := app.Punches.AddPunch(context.Background(), service.AddPunchRequest{
				Date:     date,
				Clock:    clock,
				Kind:     domain.Kind(kind),
				Position: position,
				Lunch:    lunch,
			})
			if err != nil {
				return err
			}

			if res.Created {
				fmt.Printf("Recorded %s punch %s on %s\n", res.Punch.Kind, res.Punch.Clock, res.Punch.Date)
			} else {
				fmt.Printf("Punch %s %s on %s already recorded\n", res.Punch.Kind, res.Punch.Clock, res.Punch.Date)
			}
			fmt.Print(formatter.FormatDay(date, res.Day))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&clock, "time", "", "Time (HH:MM, default now)")
	cmd.Flags().StringVar(&kind, "kind", "", "Punch kind (in|out)")
	cmd.Flags().Var(newPositionValue(&position), "position", "Position code (O|R|H|C|M, default from config)")
	cmd.Flags().IntVar(&lunch, "lunch", 0, "Lunch break in minutes (out punches only)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}
