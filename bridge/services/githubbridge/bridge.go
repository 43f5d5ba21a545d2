package githubbridge

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type bridge struct {
	log   *logger.Logger
	gh    GitHub
	repos *reposrepo.Repository
}

func newBridge(log *logger.Logger, gh GitHub, repos *reposrepo.Repository) *bridge {
	return &bridge{
		log:   log,
		gh:    gh,
		repos: repos,
	}
}

func (b *bridge) httpListRepos(ctx context.Context, r *http.Request) web.Encoder {
	if _, err := mid.GetUserID(ctx); err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	repos, err := b.gh.ListUserRepos(ctx, mid.GetProviderToken(ctx))
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordsResponse(MarshalListFromGithub(repos))
}

// httpSync fetches the repository upstream and upserts it locally.
func (b *bridge) httpSync(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	githubID, err := strconv.ParseInt(web.Param(r, "github_id"), 10, 64)
	if err != nil || githubID <= 0 {
		return errs.Newf(errs.InvalidArgument, "invalid github id %q", web.Param(r, "github_id"))
	}

	upstream, err := b.gh.GetRepoByID(ctx, mid.GetProviderToken(ctx), githubID)
	if err != nil {
		return errs.FromCore(err)
	}

	repo, err := b.repos.Sync(ctx, userID, MarshalFromGithub(upstream))
	if err != nil {
		return errs.FromCore(err)
	}

	b.log.InfoContext(ctx, "repository synced", "repository_id", repo.ID, "github_id", githubID)
	return fopbridge.NewRecordResponse(repo)
}

// MarshalFromGithub converts the upstream payload into mirror input.
func MarshalFromGithub(r githubapi.Repo) reposrepo.GithubRepo {
	return reposrepo.GithubRepo{
		GithubID:      r.ID,
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   r.Description,
		URL:           r.HTMLURL,
		DefaultBranch: r.DefaultBranch,
		IsPrivate:     r.Private,
		Language:      r.Language,
	}
}

func MarshalListFromGithub(repos []githubapi.Repo) []reposrepo.GithubRepo {
	out := make([]reposrepo.GithubRepo, len(repos))
	for i, r := range repos {
		out[i] = MarshalFromGithub(r)
	}
	return out
}
