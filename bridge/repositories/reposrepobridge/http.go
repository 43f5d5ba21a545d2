// Package reposrepobridge exposes the repository mirror and the file browser
// over HTTP.
package reposrepobridge

import (
	"context"

	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// GitHub is the part of the GitHub client the file browser needs.
type GitHub interface {
	GetTree(ctx context.Context, token, fullName, ref string) (githubapi.Tree, error)
	GetBlob(ctx context.Context, token, fullName, sha string) ([]byte, error)
}

// Config holds configuration for the Repo bridge
type Config struct {
	Log        *logger.Logger
	Repository *reposrepo.Repository
	GitHub     GitHub
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Repo
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.Repository, cfg.GitHub)
	g := group.Group("/repositories", cfg.Middleware...)

	g.GET("", b.httpList)
	g.POST("", b.httpEnsure)
	g.GET("/pinned", b.httpListPinned)
	g.GET("/{repository_id}", b.httpGet)
	g.POST("/{repository_id}/pin", b.httpTogglePin)
	g.GET("/{repository_id}/tree", b.httpTree)
	g.GET("/{repository_id}/blobs/{sha}", b.httpBlob)
}
