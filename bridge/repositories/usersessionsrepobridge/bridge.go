package usersessionsrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type bridge struct {
	log      *logger.Logger
	sessions *usersessionsrepo.Repository
}

func newBridge(log *logger.Logger, sessions *usersessionsrepo.Repository) *bridge {
	return &bridge{
		log:      log,
		sessions: sessions,
	}
}

func (b *bridge) httpCurrent(ctx context.Context, r *http.Request) web.Encoder {
	session, ok := mid.GetSession(ctx)
	if !ok {
		return errs.New(errs.Unauthenticated, mid.ErrNoUser)
	}
	return fopbridge.NewRecordResponse(MarshalToResponse(session))
}

// httpLogout revokes the session that authenticated this request.
func (b *bridge) httpLogout(ctx context.Context, r *http.Request) web.Encoder {
	session, ok := mid.GetSession(ctx)
	if !ok {
		return errs.New(errs.Unauthenticated, mid.ErrNoUser)
	}
	if err := b.sessions.Revoke(ctx, session.SessionID); err != nil {
		return errs.FromCore(err)
	}
	return nil
}
