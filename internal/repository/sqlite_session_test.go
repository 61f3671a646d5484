package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/testutil"
)

func TestSessionUpsertInsertsThenUpdates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	s := testutil.NewTestSession("2025-09-20")
	require.NoError(t, repo.Upsert(ctx, s))
	require.NotZero(t, s.ID)
	firstID := s.ID

	s.Lunch = 45
	s.End = "17:45"
	require.NoError(t, repo.Upsert(ctx, s))
	assert.Equal(t, firstID, s.ID, "rebuilds keep the row id stable")

	got, err := repo.GetByDate(ctx, "2025-09-20")
	require.NoError(t, err)
	assert.Equal(t, 45, got.Lunch)
	assert.Equal(t, "17:45", got.End)

	byID, err := repo.GetByID(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-20", byID.Date)
}

func TestSessionGetByDateNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSessionRepo(db)

	_, err := repo.GetByDate(context.Background(), "2025-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	a := testutil.NewTestSession("2025-09-20")
	b := testutil.NewTestSession("2025-10-01")
	b.Position = domain.PositionRemote
	c := testutil.NewTestSession("2024-02-02")
	for _, s := range []*domain.Session{a, b, c} {
		require.NoError(t, repo.Upsert(ctx, s))
	}

	all, err := repo.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-02-02", all[0].Date, "ordered by date")

	year, err := repo.List(ctx, "2025", "")
	require.NoError(t, err)
	assert.Len(t, year, 2)

	month, err := repo.List(ctx, "2025-09", "")
	require.NoError(t, err)
	assert.Len(t, month, 1)

	remote, err := repo.List(ctx, "", domain.PositionRemote)
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, "2025-10-01", remote[0].Date)

	_, err = repo.List(ctx, "20", "")
	assert.Error(t, err)
}

func TestSessionDeleteByDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSessionRepo(db)

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestSession("2025-09-20")))
	n, err := repo.DeleteByDate(ctx, "2025-09-20")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByDate(ctx, "2025-09-20")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = repo.DeleteByDate(ctx, "2025-09-20")
	require.NoError(t, err, "deleting a missing date is a no-op")
	assert.Zero(t, n)
}
