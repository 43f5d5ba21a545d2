// Package usersessionssqlitestore implements usersessionsrepo.Storer on SQLite.
package usersessionssqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Store provides database access for UserSession.
type Store struct {
	log *logger.Logger
	db  *sql.DB
}

// NewStore creates a new UserSession store
func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

func (s *Store) Create(ctx context.Context, session usersessionsrepo.UserSession) (usersessionsrepo.UserSession, error) {
	const query = `
	INSERT INTO user_sessions (session_id, user_id, token_hash, provider_token, expires_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		session.SessionID, session.UserID, session.TokenHash, session.ProviderToken,
		session.ExpiresAt.UTC(), session.CreatedAt.UTC(),
	)
	if err != nil {
		return usersessionsrepo.UserSession{}, sqlitedb.HandleError(err)
	}
	return s.GetByTokenHash(ctx, session.TokenHash)
}

func (s *Store) GetByTokenHash(ctx context.Context, tokenHash string) (usersessionsrepo.UserSession, error) {
	const query = `SELECT session_id, user_id, token_hash, provider_token, expires_at, created_at
	FROM user_sessions WHERE token_hash = ?`

	var us usersessionsrepo.UserSession
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&us.SessionID, &us.UserID, &us.TokenHash, &us.ProviderToken, &us.ExpiresAt, &us.CreatedAt,
	)
	if err != nil {
		return usersessionsrepo.UserSession{}, sqlitedb.HandleError(err)
	}
	return us, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return sqlitedb.HandleError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sqlitedb.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE expires_at <= ?`, before.UTC())
	if err != nil {
		return 0, sqlitedb.HandleError(err)
	}
	return res.RowsAffected()
}
