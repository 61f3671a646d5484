package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/punchlog/internal/domain"
)

func punch(id int64, date, clock string, kind domain.Kind) domain.Punch {
	return domain.Punch{ID: id, Date: date, Clock: clock, Kind: kind, Position: domain.PositionOffice}
}

func TestFoldMatchesSimpleDay(t *testing.T) {
	got := Fold([]domain.Punch{
		punch(1, "2025-09-20", "09:00", domain.KindIn),
		punch(2, "2025-09-20", "17:00", domain.KindOut),
	})
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].PairNo)
	assert.Equal(t, 1, got[1].PairNo)
	assert.False(t, got[0].Unmatched)
	assert.False(t, got[1].Unmatched)
}

func TestFoldClosesOldestOpenIn(t *testing.T) {
	// Two ins before a single out: FIFO closes the 09:00 one.
	got := Fold([]domain.Punch{
		punch(1, "2025-09-20", "09:00", domain.KindIn),
		punch(2, "2025-09-20", "09:05", domain.KindIn),
		punch(3, "2025-09-20", "12:00", domain.KindOut),
	})
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].PairNo)
	assert.False(t, got[0].Unmatched, "oldest in is the one closed")
	assert.Equal(t, 2, got[1].PairNo)
	assert.True(t, got[1].Unmatched)
	assert.Equal(t, 1, got[2].PairNo)
	assert.False(t, got[2].Unmatched)
}

func TestFoldOrphanOutStartsOwnPair(t *testing.T) {
	got := Fold([]domain.Punch{
		punch(1, "2025-09-20", "17:00", domain.KindOut),
	})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].PairNo)
	assert.True(t, got[0].Unmatched)
}

func TestFoldResetsAcrossDates(t *testing.T) {
	got := Fold([]domain.Punch{
		punch(1, "2025-09-20", "09:00", domain.KindIn),
		punch(2, "2025-09-21", "08:30", domain.KindIn),
		punch(3, "2025-09-21", "17:00", domain.KindOut),
	})
	require.Len(t, got, 3)
	assert.True(t, got[0].Unmatched, "open in of the 20th is not closed by the 21st's out")
	assert.Equal(t, 1, got[1].PairNo, "counter restarts per date")
	assert.Equal(t, 1, got[2].PairNo)
}

func TestFoldIsOrderInsensitive(t *testing.T) {
	a := Fold([]domain.Punch{
		punch(1, "2025-09-20", "09:00", domain.KindIn),
		punch(2, "2025-09-20", "12:00", domain.KindOut),
		punch(3, "2025-09-20", "13:00", domain.KindIn),
		punch(4, "2025-09-20", "17:30", domain.KindOut),
	})
	b := Fold([]domain.Punch{
		punch(4, "2025-09-20", "17:30", domain.KindOut),
		punch(2, "2025-09-20", "12:00", domain.KindOut),
		punch(1, "2025-09-20", "09:00", domain.KindIn),
		punch(3, "2025-09-20", "13:00", domain.KindIn),
	})
	assert.Equal(t, a, b, "fold result depends only on ledger contents")
}

func TestSummarizeCollapsesPairs(t *testing.T) {
	in := punch(1, "2025-09-20", "09:00", domain.KindIn)
	out := punch(2, "2025-09-20", "17:00", domain.KindOut)
	out.LunchBreak = 30
	open := punch(3, "2025-09-20", "18:00", domain.KindIn)

	rows := Summarize(Fold([]domain.Punch{in, out, open}))
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].PairNo)
	assert.Equal(t, "09:00", rows[0].In)
	assert.Equal(t, "17:00", rows[0].Out)
	assert.Equal(t, 30, rows[0].Lunch)
	assert.True(t, rows[0].Complete)

	assert.Equal(t, 2, rows[1].PairNo)
	assert.Equal(t, "18:00", rows[1].In)
	assert.Empty(t, rows[1].Out)
	assert.False(t, rows[1].Complete)
}

func TestFindPair(t *testing.T) {
	paired := Fold([]domain.Punch{
		punch(1, "2025-09-20", "09:00", domain.KindIn),
		punch(2, "2025-09-20", "17:00", domain.KindOut),
	})

	row, ok := FindPair(paired, 1)
	require.True(t, ok)
	assert.Equal(t, int64(1), row.InID)
	assert.Equal(t, int64(2), row.OutID)

	_, ok = FindPair(paired, 7)
	assert.False(t, ok)
}
