// Package settingsbridge reads and writes per-user preferences.
package settingsbridge

import (
	"github.com/jrazmi/anchorboard/core/settings"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Store      settings.Store
	Middleware []web.Middleware
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Store)
	g := group.Group("/settings", cfg.Middleware...)

	g.GET("", b.httpGet)
	g.PUT("", b.httpPut)
}
