// Package usersessionsrepobridge exposes the caller's own session.
package usersessionsrepobridge

import (
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Config holds configuration for the session bridge
type Config struct {
	Log        *logger.Logger
	Repository *usersessionsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the session routes. They expect Authenticate to
// have run.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository)
	g := group.Group("/session", cfg.Middleware...)

	g.GET("", b.httpCurrent)
	g.DELETE("", b.httpLogout)
}
