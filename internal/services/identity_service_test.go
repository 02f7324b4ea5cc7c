package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle/internal/database/testutil"
	apperrors "github.com/huddlehq/huddle/pkg/errors"
)

func TestIdentityServiceResolve(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewIdentityService(db)
	require.NoError(t, err)

	seedUser(t, db, "user-1", "Ada", "ada@example.com")

	user, err := svc.Resolve(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "Ada", user.Name)

	// query context degrades to nil on a miss
	missing, err := svc.Resolve(context.Background(), "user-unknown")
	require.NoError(t, err)
	require.Nil(t, missing)

	blank, err := svc.Resolve(context.Background(), "  ")
	require.NoError(t, err)
	require.Nil(t, blank)
}

func TestIdentityServiceRequire(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewIdentityService(db)
	require.NoError(t, err)

	seedUser(t, db, "user-1", "Ada", "ada@example.com")

	user, err := svc.Require(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)

	// mutation context fails hard so writes never silently no-op
	_, err = svc.Require(context.Background(), "user-unknown")
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Require(context.Background(), "")
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
