// Package healthbridge reports liveness and database reachability.
package healthbridge

import (
	"context"

	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// StatusCheck pings a backing store.
type StatusCheck func(ctx context.Context) error

type Config struct {
	Log         *logger.Logger
	Build       string
	Driver      string
	StatusCheck StatusCheck
}

// AddHttpRoutes registers GET /health. It is meant for a public group.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)
	group.GET("/health", b.httpHealth)
}
