package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
)

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (usersessionsrepo.UserSession, error)
}

// Authenticate requires an "Authorization: Bearer <token>" header naming a
// live session and stamps its user onto the context.
func Authenticate(auth Authenticator) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			token, ok := bearerToken(r)
			if !ok {
				return errs.Newf(errs.Unauthenticated, "expected authorization header format: Bearer <token>")
			}

			session, err := auth.Authenticate(ctx, token)
			if err != nil {
				return errs.FromCore(err)
			}

			ctx = setSession(WithUser(ctx, session.UserID, session.ProviderToken), session)
			return next(ctx, r)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
