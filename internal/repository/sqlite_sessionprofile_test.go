package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionProfileRepo_NotFoundWhenEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSessionProfileRepo(db)

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionProfileRepo_UpsertReplaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteSessionProfileRepo(db)
	ctx := context.Background()

	first := testutil.NewTestPermissions(testutil.WithViewable("title"))
	require.NoError(t, repo.Upsert(ctx, &domain.SessionProfile{BaseURL: "https://a", Permissions: first}))

	second := testutil.NewTestPermissions(testutil.ReadOnly())
	second.Username = "viewer"
	require.NoError(t, repo.Upsert(ctx, &domain.SessionProfile{BaseURL: "https://b", Permissions: second}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://b", got.BaseURL)
	assert.Equal(t, "viewer", got.Permissions.Username)
	assert.False(t, got.Permissions.CanEditProjects)
	assert.True(t, got.Permissions.CanViewProjects)
	assert.False(t, got.FetchedAt.IsZero())

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
