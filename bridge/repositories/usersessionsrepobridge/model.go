package usersessionsrepobridge

import (
	"time"

	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
)

// SessionResponse is the public view of a session. Token material never
// leaves the server.
type SessionResponse struct {
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId"`
	HasProvider bool      `json:"hasProviderToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func MarshalToResponse(s usersessionsrepo.UserSession) SessionResponse {
	return SessionResponse{
		SessionID:   s.SessionID,
		UserID:      s.UserID,
		HasProvider: s.ProviderToken != "",
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
	}
}
