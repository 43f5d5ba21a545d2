// Package reposrepo mirrors the GitHub repositories a user works with so
// tasks can reference them by a stable local id.
package reposrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// DefaultPinnedLimit caps the pinned list when no limit is given.
const DefaultPinnedLimit = 6

// Storer is the persistence contract for repositories. Create returns
// repositories.ErrDuplicate when (user, github id) already exists.
type Storer interface {
	Create(ctx context.Context, repo Repo) (Repo, error)
	Get(ctx context.Context, userID, repositoryID string) (Repo, error)
	GetByGithubID(ctx context.Context, userID string, githubID int64) (Repo, error)
	UpdateMetadata(ctx context.Context, repo Repo) (Repo, error)
	TogglePin(ctx context.Context, userID, repositoryID string) (bool, error)
	ListPinned(ctx context.Context, userID string, limit int) ([]Repo, error)
	ListByUser(ctx context.Context, userID string) ([]Repo, error)
	Count(ctx context.Context, userID string) (int, error)
}

// Repository manages the set of APIs for repository access.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// NewRepository creates a new Repo repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// Ensure returns the user's row for the GitHub repository, inserting it on
// first sight. An insert that loses a race re-reads the winner.
func (r *Repository) Ensure(ctx context.Context, userID string, gh GithubRepo) (Repo, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return Repo{}, err
	}
	gh = gh.normalized()
	if err := validateGithubRepo(gh); err != nil {
		return Repo{}, err
	}

	existing, err := r.storer.GetByGithubID(ctx, userID, gh.GithubID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return Repo{}, repositories.Persistence("get repository", err)
	}

	now := r.now().UTC()
	created, err := r.storer.Create(ctx, Repo{
		ID:            uuid.NewString(),
		UserID:        userID,
		GithubID:      gh.GithubID,
		Name:          gh.Name,
		FullName:      gh.FullName,
		Description:   gh.Description,
		URL:           gh.URL,
		DefaultBranch: gh.DefaultBranch,
		IsPrivate:     gh.IsPrivate,
		Language:      gh.Language,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		existing, err = r.storer.GetByGithubID(ctx, userID, gh.GithubID)
		if err != nil {
			return Repo{}, repositories.Persistence("get repository", err)
		}
		return existing, nil
	}
	if err != nil {
		return Repo{}, repositories.Persistence("create repository", err)
	}

	r.log.InfoContext(ctx, "repository added", "repository_id", created.ID, "full_name", created.FullName)
	return created, nil
}

// Sync ensures the repository exists and refreshes its metadata from gh.
func (r *Repository) Sync(ctx context.Context, userID string, gh GithubRepo) (Repo, error) {
	repo, err := r.Ensure(ctx, userID, gh)
	if err != nil {
		return Repo{}, err
	}

	gh = gh.normalized()
	now := r.now().UTC()
	repo.Name = gh.Name
	repo.FullName = gh.FullName
	repo.Description = gh.Description
	repo.URL = gh.URL
	repo.DefaultBranch = gh.DefaultBranch
	repo.IsPrivate = gh.IsPrivate
	repo.Language = gh.Language
	repo.LastSyncedAt = &now
	repo.UpdatedAt = now

	updated, err := r.storer.UpdateMetadata(ctx, repo)
	if err != nil {
		return Repo{}, repositories.Persistence("sync repository", err)
	}
	return updated, nil
}

// Get returns one repository of the user.
func (r *Repository) Get(ctx context.Context, userID, repositoryID string) (Repo, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return Repo{}, err
	}
	if uuid.Validate(repositoryID) != nil {
		return Repo{}, repositories.ErrNotFound
	}

	repo, err := r.storer.Get(ctx, userID, repositoryID)
	if err != nil {
		return Repo{}, repositories.Persistence("get repository", err)
	}
	return repo, nil
}

// TogglePin flips the pinned flag and returns the new value.
func (r *Repository) TogglePin(ctx context.Context, userID, repositoryID string) (bool, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return false, err
	}
	if uuid.Validate(repositoryID) != nil {
		return false, repositories.ErrNotFound
	}

	pinned, err := r.storer.TogglePin(ctx, userID, repositoryID)
	if err != nil {
		return false, repositories.Persistence("toggle repository pin", err)
	}
	return pinned, nil
}

// ListPinned returns up to limit pinned repositories. A non-positive limit
// uses DefaultPinnedLimit.
func (r *Repository) ListPinned(ctx context.Context, userID string, limit int) ([]Repo, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPinnedLimit
	}

	repos, err := r.storer.ListPinned(ctx, userID, limit)
	if err != nil {
		return nil, repositories.Persistence("list pinned repositories", err)
	}
	return repos, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Repo, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return nil, err
	}

	repos, err := r.storer.ListByUser(ctx, userID)
	if err != nil {
		return nil, repositories.Persistence("list repositories", err)
	}
	return repos, nil
}

func (r *Repository) Count(ctx context.Context, userID string) (int, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return 0, err
	}

	n, err := r.storer.Count(ctx, userID)
	if err != nil {
		return 0, repositories.Persistence("count repositories", err)
	}
	return n, nil
}

func validateGithubRepo(gh GithubRepo) error {
	switch {
	case gh.GithubID <= 0:
		return fmt.Errorf("%w: github id must be positive", repositories.ErrInvalidInput)
	case gh.FullName == "":
		return fmt.Errorf("%w: full name is required", repositories.ErrInvalidInput)
	case gh.Name == "":
		return fmt.Errorf("%w: name is required", repositories.ErrInvalidInput)
	case gh.URL == "":
		return fmt.Errorf("%w: url is required", repositories.ErrInvalidInput)
	}
	return nil
}
