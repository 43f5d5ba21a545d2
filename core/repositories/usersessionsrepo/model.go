package usersessionsrepo

import "time"

// UserSession binds a bearer token to a user and the GitHub token used for
// upstream calls on their behalf.
type UserSession struct {
	SessionID     string    `db:"session_id" json:"sessionId"`
	UserID        string    `db:"user_id" json:"userId"`
	TokenHash     string    `db:"token_hash" json:"-"`
	ProviderToken string    `db:"provider_token" json:"-"`
	ExpiresAt     time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s UserSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
