// Package usersessionsrepo looks bearer sessions up for the auth middleware
// and issues them for local development.
package usersessionsrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/sdk/cryptids"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Storer is the persistence contract for sessions.
type Storer interface {
	Create(ctx context.Context, session UserSession) (UserSession, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (UserSession, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Repository provides access to session storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// NewRepository creates a new UserSession repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// Authenticate resolves a bearer token to its live session.
func (r *Repository) Authenticate(ctx context.Context, token string) (UserSession, error) {
	if token == "" {
		return UserSession{}, repositories.ErrUnauthorized
	}

	session, err := r.storer.GetByTokenHash(ctx, cryptids.HashToken(token))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return UserSession{}, repositories.ErrUnauthorized
		}
		return UserSession{}, repositories.Persistence("authenticate", err)
	}

	if session.Expired(r.now()) {
		return UserSession{}, repositories.ErrUnauthorized
	}

	return session, nil
}

// Create issues a new session and returns the plaintext bearer token. Only
// the token hash is stored.
func (r *Repository) Create(ctx context.Context, userID, providerToken string, ttl time.Duration) (string, UserSession, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return "", UserSession{}, err
	}
	if ttl <= 0 {
		return "", UserSession{}, fmt.Errorf("%w: ttl must be positive", repositories.ErrInvalidInput)
	}

	token, err := cryptids.GenerateToken()
	if err != nil {
		return "", UserSession{}, fmt.Errorf("generate token: %w", err)
	}

	now := r.now().UTC()
	session, err := r.storer.Create(ctx, UserSession{
		SessionID:     uuid.NewString(),
		UserID:        userID,
		TokenHash:     cryptids.HashToken(token),
		ProviderToken: providerToken,
		ExpiresAt:     now.Add(ttl),
		CreatedAt:     now,
	})
	if err != nil {
		return "", UserSession{}, repositories.Persistence("create session", err)
	}

	r.log.InfoContext(ctx, "session created", "session_id", session.SessionID, "user_id", userID, "expires_at", session.ExpiresAt)
	return token, session, nil
}

// Revoke deletes a session.
func (r *Repository) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", repositories.ErrInvalidInput)
	}
	if err := r.storer.Delete(ctx, sessionID); err != nil {
		return repositories.Persistence("revoke session", err)
	}
	r.log.InfoContext(ctx, "session revoked", "session_id", sessionID)
	return nil
}

// Prune removes every session that expired before now.
func (r *Repository) Prune(ctx context.Context) (int64, error) {
	n, err := r.storer.DeleteExpired(ctx, r.now().UTC())
	if err != nil {
		return 0, repositories.Persistence("prune sessions", err)
	}
	return n, nil
}
