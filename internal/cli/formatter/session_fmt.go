package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/pairing"
	"github.com/alexanderramin/punchlog/internal/service"
)

// FormatSessions renders the aggregate day view as a table. Open
// sessions show their expected exit instead of a surplus.
func FormatSessions(views []service.SessionView) string {
	if len(views) == 0 {
		return Dim("no sessions recorded") + "\n"
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		end := v.End
		surplus := ""
		switch {
		case v.Position == domain.PositionHoliday:
			surplus = StyleYellow.Render("holiday")
		case v.Complete:
			surplus = Surplus(v.Surplus)
		default:
			end = Dim("open")
			if v.ExpectedExit != "" {
				surplus = Dim("exit ~" + v.ExpectedExit)
			}
		}
		rows = append(rows, []string{
			v.Date,
			PositionStyle(v.Position).Render(string(v.Position)),
			v.Start,
			end,
			fmt.Sprintf("%dm", v.Lunch),
			surplus,
		})
	}
	return RenderTable([]string{"DATE", "POS", "IN", "OUT", "LUNCH", "BALANCE"}, rows)
}

// FormatDay renders one date's punches grouped into pairs, flagging
// unmatched sides.
func FormatDay(date string, paired []pairing.Paired) string {
	if len(paired) == 0 {
		return Dim("no punches on "+date) + "\n"
	}

	rows := make([][]string, 0, len(paired))
	for _, row := range pairing.Summarize(paired) {
		in, out := row.In, row.Out
		note := ""
		if in == "" {
			in = Dim("-")
			note = StyleRed.Render("missing in")
		}
		if out == "" {
			out = Dim("-")
			note = Dim("open")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", row.PairNo),
			PositionStyle(row.Position).Render(string(row.Position)),
			in,
			out,
			fmt.Sprintf("%dm", row.Lunch),
			note,
		})
	}

	var b strings.Builder
	b.WriteString(Bold(date) + "\n")
	b.WriteString(RenderTable([]string{"PAIR", "POS", "IN", "OUT", "LUNCH", ""}, rows))
	return b.String()
}

// FormatAudit renders operation log entries, newest first.
func FormatAudit(entries []domain.AuditEntry) string {
	if len(entries) == 0 {
		return Dim("log is empty") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			Dim(e.Date.Format("2006-01-02 15:04")),
			e.Operation,
			e.Target,
			e.Message,
		})
	}
	return RenderTable([]string{"WHEN", "OP", "TARGET", "MESSAGE"}, rows)
}
