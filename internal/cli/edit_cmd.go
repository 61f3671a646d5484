package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/service"
)

func newEditCmd(app *App) *cobra.Command {
	var date, in, out string
	var position domain.Position
	var pairNo, lunch int

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit one in/out pair of a day",
		Long: `Edit one in/out pair of a day. Only the given flags are changed;
setting --in or --out on a side the pair does not have creates the
missing punch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.EditPairRequest{Date: date, PairNo: pairNo}
			if cmd.Flags().Changed("in") {
				req.In = &in
			}
			if cmd.Flags().Changed("out") {
				req.Out = &out
			}
			if cmd.Flags().Changed("position") {
				req.Position = &position
			}
			if cmd.Flags().Changed("lunch") {
				req.Lunch = &lunch
			}

			changes, err := app.Punches.EditPair(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Updated pair %d on %s: %s\n", pairNo, date, strings.Join(changes, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&pairNo, "pair", 1, "Pair number within the day")
	cmd.Flags().StringVar(&in, "in", "", "New in time (HH:MM)")
	cmd.Flags().StringVar(&out, "out", "", "New out time (HH:MM)")
	cmd.Flags().Var(newPositionValue(&position), "position", "New position code (O|R|H|C|M)")
	cmd.Flags().IntVar(&lunch, "lunch", 0, "New lunch break in minutes")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
