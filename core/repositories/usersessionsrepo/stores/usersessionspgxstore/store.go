// Package usersessionspgxstore implements usersessionsrepo.Storer on Postgres.
package usersessionspgxstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const sessionColumns = `session_id, user_id, token_hash, provider_token, expires_at, created_at`

// Store provides database access for UserSession.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore creates a new UserSession store
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) Create(ctx context.Context, session usersessionsrepo.UserSession) (usersessionsrepo.UserSession, error) {
	const query = `
	INSERT INTO user_sessions (session_id, user_id, token_hash, provider_token, expires_at, created_at)
	VALUES (@session_id, @user_id, @token_hash, @provider_token, @expires_at, @created_at)
	RETURNING ` + sessionColumns

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{
		"session_id":     session.SessionID,
		"user_id":        session.UserID,
		"token_hash":     session.TokenHash,
		"provider_token": session.ProviderToken,
		"expires_at":     session.ExpiresAt,
		"created_at":     session.CreatedAt,
	})
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[usersessionsrepo.UserSession])
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	return created, nil
}

func (s *Store) GetByTokenHash(ctx context.Context, tokenHash string) (usersessionsrepo.UserSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM user_sessions WHERE token_hash = @token_hash`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"token_hash": tokenHash})
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[usersessionsrepo.UserSession])
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	return session, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE session_id = @session_id`, pgx.NamedArgs{"session_id": sessionID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= @before`, pgx.NamedArgs{"before": before})
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}
