// Package githubbridge lists the caller's GitHub repositories and pulls one
// into the local mirror.
package githubbridge

import (
	"context"

	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// GitHub is the part of the GitHub client this bridge needs.
type GitHub interface {
	ListUserRepos(ctx context.Context, token string) ([]githubapi.Repo, error)
	GetRepoByID(ctx context.Context, token string, id int64) (githubapi.Repo, error)
}

type Config struct {
	Log          *logger.Logger
	GitHub       GitHub
	Repositories *reposrepo.Repository
	Middleware   []web.Middleware
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Log, cfg.GitHub, cfg.Repositories)
	g := group.Group("/github", cfg.Middleware...)

	g.GET("/repos", b.httpListRepos)
	g.POST("/repos/{github_id}/sync", b.httpSync)
}
