package dashboardbridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/dashboard"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type bridge struct {
	log     *logger.Logger
	service *dashboard.Service
}

func newBridge(log *logger.Logger, service *dashboard.Service) *bridge {
	return &bridge{
		log:     log,
		service: service,
	}
}

func (b *bridge) httpStats(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	stats, err := b.service.Stats(ctx, userID)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordResponse(stats)
}

// httpRepositoryCounts answers a map keyed by GitHub repository id.
func (b *bridge) httpRepositoryCounts(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	counts, err := b.service.TaskCountsByRepository(ctx, userID)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordResponse(counts)
}

func (b *bridge) httpActivity(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	limit, perr := fopbridge.ParseLimit(r)
	if perr != nil {
		return perr
	}

	recent, err := b.service.RecentActivity(ctx, userID, limit)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordsResponse(recent)
}
