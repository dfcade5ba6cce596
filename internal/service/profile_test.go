package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mlfs/internal/repository"
	"github.com/alexanderramin/mlfs/internal/testutil"
)

func permissionCalls(h *harness) int {
	n := 0
	for _, c := range h.fake.CallLog() {
		if c == "GET /api/auth/user/permissions/" {
			n++
		}
	}
	return n
}

func TestSessionProfile_CachesPerServer(t *testing.T) {
	h := newHarness(t)
	h.fake.SetPermissions(testutil.NewTestPermissions(testutil.AsAgency()))
	repo := repository.NewSQLiteSessionProfileRepo(testutil.NewTestDB(t))
	svc := NewSessionProfileService(h.client, repo, h.fake.URL())

	first, err := svc.Permissions(context.Background(), false)
	require.NoError(t, err)
	second, err := svc.Permissions(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, first.CanSubmitProjects)
	assert.False(t, first.CanApproveProjects)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, permissionCalls(h))

	_, err = svc.Permissions(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, permissionCalls(h))
}

func TestSessionProfile_OtherServerRefetches(t *testing.T) {
	h := newHarness(t)
	h.fake.SetPermissions(testutil.NewTestPermissions())
	repo := repository.NewSQLiteSessionProfileRepo(testutil.NewTestDB(t))

	_, err := NewSessionProfileService(h.client, repo, "https://staging.example.org").Permissions(context.Background(), false)
	require.NoError(t, err)
	_, err = NewSessionProfileService(h.client, repo, h.fake.URL()).Permissions(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, permissionCalls(h))
}

func TestSessionProfile_Forget(t *testing.T) {
	h := newHarness(t)
	repo := repository.NewSQLiteSessionProfileRepo(testutil.NewTestDB(t))
	svc := NewSessionProfileService(h.client, repo, h.fake.URL())

	_, err := svc.Permissions(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, svc.Forget(context.Background()))
	_, err = svc.Permissions(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, permissionCalls(h))
}
