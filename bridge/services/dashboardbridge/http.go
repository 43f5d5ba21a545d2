// Package dashboardbridge serves the landing page aggregates.
package dashboardbridge

import (
	"github.com/jrazmi/anchorboard/core/dashboard"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Service    *dashboard.Service
	Middleware []web.Middleware
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Service)
	g := group.Group("/dashboard", cfg.Middleware...)

	g.GET("/stats", b.httpStats)
	g.GET("/repository-counts", b.httpRepositoryCounts)
	g.GET("/activity", b.httpActivity)
}
