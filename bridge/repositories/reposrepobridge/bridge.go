package reposrepobridge

import (
	"context"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/filetree"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

type bridge struct {
	log             *logger.Logger
	reposRepository *reposrepo.Repository
	github          GitHub
}

func newBridge(log *logger.Logger, reposRepository *reposrepo.Repository, github GitHub) *bridge {
	return &bridge{
		log:             log,
		reposRepository: reposRepository,
		github:          github,
	}
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	repos, err := b.reposRepository.ListForUser(ctx, userID)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordsResponse(repos)
}

func (b *bridge) httpEnsure(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	var input reposrepo.GithubRepo
	if err := web.Decode(r, &input); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	repo, err := b.reposRepository.Ensure(ctx, userID, input)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordResponse(repo)
}

func (b *bridge) httpListPinned(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	limit, limitErr := fopbridge.ParseLimit(r)
	if limitErr != nil {
		return limitErr
	}

	repos, err := b.reposRepository.ListPinned(ctx, userID, limit)
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordsResponse(repos)
}

func (b *bridge) httpGet(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	repo, err := b.reposRepository.Get(ctx, userID, web.Param(r, "repository_id"))
	if err != nil {
		return errs.FromCore(err)
	}
	return fopbridge.NewRecordResponse(repo)
}

func (b *bridge) httpTogglePin(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	pinned, err := b.reposRepository.TogglePin(ctx, userID, web.Param(r, "repository_id"))
	if err != nil {
		return errs.FromCore(err)
	}
	return web.NewJSONResponse(PinResponse{IsPinned: pinned})
}

// httpTree builds the file tree at ref, defaulting to the repository's
// default branch.
func (b *bridge) httpTree(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	repo, err := b.reposRepository.Get(ctx, userID, web.Param(r, "repository_id"))
	if err != nil {
		return errs.FromCore(err)
	}

	ref := web.QueryParam(r, "ref")
	if ref == "" {
		ref = repo.DefaultBranch
	}

	tree, err := b.github.GetTree(ctx, mid.GetProviderToken(ctx), repo.FullName, ref)
	if err != nil {
		return errs.FromCore(err)
	}

	nodes, report := filetree.Build(MarshalTreeEntries(tree.Tree))
	if !report.Clean() {
		b.log.WarnContext(ctx, "tree listing repaired",
			"repository", repo.FullName,
			"synthesized", len(report.Synthesized),
			"duplicates", len(report.Duplicates),
			"dropped", len(report.Dropped))
	}

	return web.NewJSONResponse(TreeResponse{
		Ref:         ref,
		SHA:         tree.SHA,
		Truncated:   tree.Truncated,
		Tree:        nodes,
		Synthesized: report.Synthesized,
	})
}

func (b *bridge) httpBlob(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	repo, err := b.reposRepository.Get(ctx, userID, web.Param(r, "repository_id"))
	if err != nil {
		return errs.FromCore(err)
	}

	data, err := b.github.GetBlob(ctx, mid.GetProviderToken(ctx), repo.FullName, web.Param(r, "sha"))
	if err != nil {
		return errs.FromCore(err)
	}
	return web.NewTextResponse(data)
}
