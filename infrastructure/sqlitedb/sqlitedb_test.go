package sqlitedb

import (
	"context"
	"errors"
	"testing"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	first, err := Migrate(ctx, nil, db)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	for _, r := range first {
		assert.True(t, r.Applied, r.Version)
	}

	second, err := Migrate(ctx, nil, db)
	require.NoError(t, err)
	require.Len(t, second, len(first))
	for _, r := range second {
		assert.False(t, r.Applied, r.Version)
	}
}

func TestHandleErrorConstraints(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = Migrate(ctx, nil, db)
	require.NoError(t, err)

	insertRepo := `INSERT INTO repositories (id, user_id, github_id, name, full_name, url, created_at, updated_at)
		VALUES (?, 'u1', 42, 'w', 'acme/w', 'https://x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = db.ExecContext(ctx, insertRepo, "r1")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insertRepo, "r2")
	assert.True(t, errors.Is(HandleError(err), repositories.ErrDuplicate), "unique: %v", err)

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, user_id, repository_id, title, created_at, updated_at)
		VALUES ('t1', 'u1', 'missing', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.True(t, errors.Is(HandleError(err), repositories.ErrNotFound), "foreign key: %v", err)

	_, err = db.ExecContext(ctx, `INSERT INTO tasks (id, user_id, repository_id, title, type, created_at, updated_at)
		VALUES ('t2', 'u1', 'r1', 'x', 'CHORE', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.True(t, errors.Is(HandleError(err), repositories.ErrInvalidInput), "check: %v", err)

	err = db.QueryRowContext(ctx, "SELECT id FROM tasks WHERE id = 'nope'").Scan(new(string))
	assert.True(t, errors.Is(HandleError(err), repositories.ErrNotFound))
}
