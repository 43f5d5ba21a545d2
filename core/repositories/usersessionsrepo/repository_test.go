package usersessionsrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo/stores/usersessionssqlitestore"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/sdk/cryptids"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (*usersessionsrepo.Repository, *usersessionssqlitestore.Store) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlitedb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlitedb.Migrate(ctx, nil, db)
	require.NoError(t, err)

	store := usersessionssqlitestore.NewStore(logger.NewNop(), db)
	return usersessionsrepo.NewRepository(logger.NewNop(), store), store
}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepository(t)

	token, session, err := repo.Create(ctx, "u1", "gho_secret", time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 43)
	assert.Equal(t, "u1", session.UserID)

	stored, err := store.GetByTokenHash(ctx, cryptids.HashToken(token))
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.TokenHash)

	got, err := repo.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, "gho_secret", got.ProviderToken)

	_, err = repo.Authenticate(ctx, token+"x")
	assert.True(t, errors.Is(err, repositories.ErrUnauthorized), "got %v", err)

	_, err = repo.Authenticate(ctx, "")
	assert.True(t, errors.Is(err, repositories.ErrUnauthorized), "got %v", err)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)

	token, session, err := repo.Create(ctx, "u1", "", time.Hour)
	require.NoError(t, err)

	require.NoError(t, repo.Revoke(ctx, session.SessionID))
	_, err = repo.Authenticate(ctx, token)
	assert.True(t, errors.Is(err, repositories.ErrUnauthorized), "got %v", err)

	err = repo.Revoke(ctx, session.SessionID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound), "got %v", err)
}

func TestExpiredSessions(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepository(t)

	_, _, err := repo.Create(ctx, "u1", "", 0)
	assert.True(t, errors.Is(err, repositories.ErrInvalidInput), "got %v", err)

	token, _, err := repo.Create(ctx, "u1", "", time.Hour)
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	_, err = store.Create(ctx, usersessionsrepo.UserSession{
		SessionID: "old",
		UserID:    "u1",
		TokenHash: cryptids.HashToken("stale"),
		ExpiresAt: past,
		CreatedAt: past.Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = repo.Authenticate(ctx, "stale")
	assert.True(t, errors.Is(err, repositories.ErrUnauthorized), "got %v", err)

	n, err := repo.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Authenticate(ctx, token)
	assert.NoError(t, err)
}
