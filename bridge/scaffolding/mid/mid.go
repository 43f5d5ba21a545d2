// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
)

type ctxKey int

const (
	userIDKey ctxKey = iota + 1
	providerTokenKey
	sessionKey
)

// ErrNoUser is returned when a handler runs without Authenticate.
var ErrNoUser = errors.New("user id not found in context")

func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user id from the context.
func GetUserID(ctx context.Context) (string, error) {
	v, ok := ctx.Value(userIDKey).(string)
	if !ok || v == "" {
		return "", ErrNoUser
	}

	return v, nil
}

func setProviderToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, providerTokenKey, token)
}

// GetProviderToken returns the GitHub token bound to the caller's session.
// It is empty when the session carries none.
func GetProviderToken(ctx context.Context) string {
	v, _ := ctx.Value(providerTokenKey).(string)
	return v
}

// WithUser stamps a user onto ctx the way Authenticate does. Used by tests
// and tooling that bypass bearer auth.
func WithUser(ctx context.Context, userID, providerToken string) context.Context {
	return setProviderToken(setUserID(ctx, userID), providerToken)
}

func setSession(ctx context.Context, session usersessionsrepo.UserSession) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession returns the session Authenticate resolved for the request.
func GetSession(ctx context.Context) (usersessionsrepo.UserSession, bool) {
	v, ok := ctx.Value(sessionKey).(usersessionsrepo.UserSession)
	return v, ok
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}
