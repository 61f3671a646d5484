package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/punchlog/internal/domain"
	"github.com/alexanderramin/punchlog/internal/testutil"
)

func TestAuditAppendAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteAuditRepo(db)

	first := &domain.AuditEntry{Operation: "add", Target: "2025-09-20", Message: "added in punch 09:00"}
	require.NoError(t, repo.Append(ctx, first))
	require.NotZero(t, first.ID)
	assert.False(t, first.Date.IsZero())

	second := &domain.AuditEntry{Operation: "del", Target: "2025-09-20", Message: "deleted pair 1"}
	require.NoError(t, repo.Append(ctx, second))

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "del", entries[0].Operation, "newest first")
	assert.Equal(t, "add", entries[1].Operation)
}

func TestAuditListIncludesMigrationMarkers(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteAuditRepo(db)

	entries, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.NotEmpty(t, entries, "migration markers share the log table")
	for _, e := range entries {
		assert.Equal(t, "migration_applied", e.Operation)
	}
}
