package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCacheRepo_PutGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFieldCacheRepo(db)
	ctx := context.Background()

	fs := []domain.FieldDescriptor{
		testutil.NewTestField("technology", testutil.WithOptions(testutil.NewTestOptions("Foam", "Aerosol")...), testutil.WithSortOrder(2)),
		testutil.NewTestField("phase_out", testutil.WithDataType(domain.DataDecimal), testutil.AsActual()),
	}
	require.NoError(t, repo.Put(ctx, "1/2/3", fs))

	got, err := repo.Get(ctx, "1/2/3")
	require.NoError(t, err)
	require.Len(t, got.Fields, 2)
	assert.Equal(t, fs[0].Options, got.Fields[0].Options)
	assert.Equal(t, 2, got.Fields[0].Order())
	assert.True(t, got.Fields[1].IsActual)
	assert.False(t, got.FetchedAt.IsZero())
}

func TestFieldCacheRepo_GetMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFieldCacheRepo(db)

	_, err := repo.Get(context.Background(), "9/9/9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFieldCacheRepo_PutReplacesAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFieldCacheRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []domain.FieldDescriptor{testutil.NewTestField("a")}))
	require.NoError(t, repo.Put(ctx, "k", []domain.FieldDescriptor{testutil.NewTestField("b")}))
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "b", got.Fields[0].Name())

	require.NoError(t, repo.Delete(ctx, "k"))
	_, err = repo.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Put(ctx, "x", nil))
	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
