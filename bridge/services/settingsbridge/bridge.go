package settingsbridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/settings"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type bridge struct {
	log   *logger.Logger
	store settings.Store
}

func newBridge(log *logger.Logger, store settings.Store) *bridge {
	return &bridge{
		log:   log,
		store: store,
	}
}

func (b *bridge) httpGet(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	s, err := b.store.Load(ctx, userID)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordResponse(s)
}

// httpPut replaces the stored settings. Fields missing from the body keep
// their current values.
func (b *bridge) httpPut(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	current, err := b.store.Load(ctx, userID)
	if err != nil {
		return errs.FromCore(err)
	}
	if err := web.Decode(r, &current); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if err := b.store.Save(ctx, userID, current); err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordResponse(current)
}
