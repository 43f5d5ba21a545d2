// Package api mounts every bridge under the versioned route prefix.
package api

import (
	"context"
	"expvar"
	"net/http"

	"github.com/jrazmi/anchorboard/app/anchorboard/config"
	"github.com/jrazmi/anchorboard/bridge/repositories/reposrepobridge"
	"github.com/jrazmi/anchorboard/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/anchorboard/bridge/repositories/usersessionsrepobridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/bridge/services/dashboardbridge"
	"github.com/jrazmi/anchorboard/bridge/services/githubbridge"
	"github.com/jrazmi/anchorboard/bridge/services/healthbridge"
	"github.com/jrazmi/anchorboard/bridge/services/settingsbridge"
	"github.com/jrazmi/anchorboard/infrastructure/web"
)

// AddHandlers registers the API on h. Everything except /health requires a
// bearer session.
func AddHandlers(h *web.WebHandler, cfg config.Anchorboard) {
	log := cfg.Logger

	// Preflight requests are answered by the CORS middleware.
	h.Handle(http.MethodOptions, "/", func(ctx context.Context, r *http.Request) web.Encoder {
		return nil
	})
	h.HandleRaw("GET /debug/vars", expvar.Handler())

	public := h.Group(config.ApiRoute)
	healthbridge.AddHttpRoutes(public, healthbridge.Config{
		Log:         log,
		Build:       cfg.Build,
		Driver:      cfg.Driver,
		StatusCheck: cfg.StatusCheck,
	})

	private := h.Group(config.ApiRoute, mid.Authenticate(cfg.Repositories.Sessions))

	usersessionsrepobridge.AddHttpRoutes(private, usersessionsrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Sessions,
	})
	githubbridge.AddHttpRoutes(private, githubbridge.Config{
		Log:          log,
		GitHub:       cfg.GitHub,
		Repositories: cfg.Repositories.Repos,
	})
	reposrepobridge.AddHttpRoutes(private, reposrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Repos,
		GitHub:     cfg.GitHub,
	})
	tasksrepobridge.AddHttpRoutes(private, tasksrepobridge.Config{
		Log:        log,
		Repository: cfg.Repositories.Tasks,
	})
	dashboardbridge.AddHttpRoutes(private, dashboardbridge.Config{
		Log:     log,
		Service: cfg.Dashboard,
	})
	settingsbridge.AddHttpRoutes(private, settingsbridge.Config{
		Log:   log,
		Store: cfg.Settings,
	})
}
