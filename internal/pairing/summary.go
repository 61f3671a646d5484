package pairing

import "github.com/alexanderramin/punchlog/internal/domain"

// Summary is one pair of a day collapsed into a row: the in and out
// clocks (empty when that side is missing), the pair's position and
// lunch minutes, and whether both sides are present.
type Summary struct {
	Date     string
	PairNo   int
	In       string
	Out      string
	InID     int64
	OutID    int64
	Position domain.Position
	Lunch    int
	Complete bool
}

// Summarize groups folded punches into per-pair rows, ordered by date
// and pair number. The lunch break is carried by the "out" punch; the
// position comes from the "in" punch when present, otherwise from the
// "out".
func Summarize(paired []Paired) []Summary {
	type key struct {
		date string
		pair int
	}
	index := make(map[key]int)
	var rows []Summary
	for _, p := range paired {
		k := key{p.Date, p.PairNo}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, Summary{Date: p.Date, PairNo: p.PairNo})
		}
		switch p.Kind {
		case domain.KindIn:
			rows[i].In = p.Clock
			rows[i].InID = p.ID
			rows[i].Position = p.Position
		case domain.KindOut:
			rows[i].Out = p.Clock
			rows[i].OutID = p.ID
			rows[i].Lunch = p.LunchBreak
			if rows[i].Position == "" {
				rows[i].Position = p.Position
			}
		}
	}
	for i := range rows {
		rows[i].Complete = rows[i].In != "" && rows[i].Out != ""
	}
	return rows
}

// FindPair returns the summary row with the given pair number for the
// date, or false when no such pair exists.
func FindPair(paired []Paired, pairNo int) (Summary, bool) {
	for _, row := range Summarize(paired) {
		if row.PairNo == pairNo {
			return row, true
		}
	}
	return Summary{}, false
}
