// Package pairing derives in/out pair assignments from an ordered punch
// ledger. Pairing is a pure fold: the same punches always produce the
// same assignment, so pair numbers are recomputed from the ledger rather
// than trusted from storage.
package pairing

import (
	"sort"

	"github.com/alexanderramin/punchlog/internal/domain"
)

// Paired is a punch together with its derived pair number and match
// state. Pair numbers are per-date, starting at 1, in arrival order.
type Paired struct {
	domain.Punch

	// PairNo is the derived pair number, superseding Punch.Pair.
	PairNo int

	// Unmatched is true for an "in" with no later "out" and for an
	// "out" with no earlier open "in".
	Unmatched bool
}

// Fold assigns pair numbers to the given punches using first-in
// first-out matching: an "out" closes the oldest still-open "in" of the
// same date. Punches are ordered by date, clock and id before folding,
// so callers may pass rows in any order. The per-date counter and the
// open queue reset whenever the date changes.
func Fold(punches []domain.Punch) []Paired {
	ordered := make([]domain.Punch, len(punches))
	copy(ordered, punches)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Clock != b.Clock {
			return a.Clock < b.Clock
		}
		return a.ID < b.ID
	})

	out := make([]Paired, len(ordered))
	var (
		date    string
		counter int
		open    []int // indexes into out of unclosed "in" punches
	)
	for i, p := range ordered {
		if p.Date != date {
			date = p.Date
			counter = 0
			open = open[:0]
		}
		switch p.Kind {
		case domain.KindIn:
			counter++
			out[i] = Paired{Punch: p, PairNo: counter, Unmatched: true}
			open = append(open, i)
		case domain.KindOut:
			if len(open) > 0 {
				j := open[0]
				open = open[1:]
				out[j].Unmatched = false
				out[i] = Paired{Punch: p, PairNo: out[j].PairNo}
			} else {
				// Orphan out: no open in to close, gets its own pair.
				counter++
				out[i] = Paired{Punch: p, PairNo: counter, Unmatched: true}
			}
		default:
			counter++
			out[i] = Paired{Punch: p, PairNo: counter, Unmatched: true}
		}
	}
	return out
}

// ForDate folds only the punches of the given date.
func ForDate(punches []domain.Punch, date string) []Paired {
	var day []domain.Punch
	for _, p := range punches {
		if p.Date == date {
			day = append(day, p)
		}
	}
	return Fold(day)
}
