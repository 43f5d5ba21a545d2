// Package repospgxstore implements reposrepo.Storer on Postgres.
package repospgxstore

import (
	"bytes"
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const repoColumns = `id, user_id, github_id, name, full_name, description, url, default_branch,
	is_private, language, is_pinned, last_synced_at, created_at, updated_at`

// Store provides database access for repositories.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore creates a new Repo store
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) Create(ctx context.Context, repo reposrepo.Repo) (reposrepo.Repo, error) {
	const query = `
	INSERT INTO repositories (
		id, user_id, github_id, name, full_name, description, url, default_branch,
		is_private, language, is_pinned, last_synced_at, created_at, updated_at
	) VALUES (
		@id, @user_id, @github_id, @name, @full_name, @description, @url, @default_branch,
		@is_private, @language, @is_pinned, @last_synced_at, @created_at, @updated_at
	)
	RETURNING ` + repoColumns

	rows, err := s.pool.Query(ctx, query, namedArgs(repo))
	if err != nil {
		return reposrepo.Repo{}, postgresdb.HandlePgError(err)
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[reposrepo.Repo])
	if err != nil {
		return reposrepo.Repo{}, postgresdb.HandlePgError(err)
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, userID, repositoryID string) (reposrepo.Repo, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE id = @id AND user_id = @user_id`
	return s.queryOne(ctx, query, pgx.NamedArgs{"id": repositoryID, "user_id": userID})
}

func (s *Store) GetByGithubID(ctx context.Context, userID string, githubID int64) (reposrepo.Repo, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE github_id = @github_id AND user_id = @user_id`
	return s.queryOne(ctx, query, pgx.NamedArgs{"github_id": githubID, "user_id": userID})
}

func (s *Store) UpdateMetadata(ctx context.Context, repo reposrepo.Repo) (reposrepo.Repo, error) {
	query := `
	UPDATE repositories SET
		name = @name, full_name = @full_name, description = @description, url = @url,
		default_branch = @default_branch, is_private = @is_private, language = @language,
		last_synced_at = @last_synced_at, updated_at = @updated_at
	WHERE id = @id AND user_id = @user_id
	RETURNING ` + repoColumns
	return s.queryOne(ctx, query, namedArgs(repo))
}

// TogglePin flips is_pinned in a single statement.
func (s *Store) TogglePin(ctx context.Context, userID, repositoryID string) (bool, error) {
	const query = `UPDATE repositories SET is_pinned = NOT is_pinned WHERE id = @id AND user_id = @user_id RETURNING is_pinned`

	var pinned bool
	if err := s.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": repositoryID, "user_id": userID}).Scan(&pinned); err != nil {
		return false, postgresdb.HandlePgError(err)
	}
	return pinned, nil
}

func (s *Store) ListPinned(ctx context.Context, userID string, limit int) ([]reposrepo.Repo, error) {
	data := pgx.NamedArgs{"user_id": userID}
	buf := bytes.NewBufferString(`SELECT ` + repoColumns + ` FROM repositories WHERE user_id = @user_id AND is_pinned`)
	if err := postgresdb.AddOrderByClause(buf, "updated_at", "id", postgresdb.DESC); err != nil {
		return nil, err
	}
	postgresdb.AddLimitClause(limit, data, buf)
	return s.queryMany(ctx, buf.String(), data)
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]reposrepo.Repo, error) {
	data := pgx.NamedArgs{"user_id": userID}
	buf := bytes.NewBufferString(`SELECT ` + repoColumns + ` FROM repositories WHERE user_id = @user_id`)
	if err := postgresdb.AddOrderByClause(buf, "full_name", "id", postgresdb.ASC); err != nil {
		return nil, err
	}
	return s.queryMany(ctx, buf.String(), data)
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM repositories WHERE user_id = @user_id`, pgx.NamedArgs{"user_id": userID}).Scan(&n)
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return n, nil
}

func (s *Store) queryOne(ctx context.Context, query string, args pgx.NamedArgs) (reposrepo.Repo, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return reposrepo.Repo{}, postgresdb.HandlePgError(err)
	}
	repo, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[reposrepo.Repo])
	if err != nil {
		return reposrepo.Repo{}, postgresdb.HandlePgError(err)
	}
	return repo, nil
}

func (s *Store) queryMany(ctx context.Context, query string, args pgx.NamedArgs) ([]reposrepo.Repo, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	repos, err := pgx.CollectRows(rows, pgx.RowToStructByName[reposrepo.Repo])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return repos, nil
}

func namedArgs(r reposrepo.Repo) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":             r.ID,
		"user_id":        r.UserID,
		"github_id":      r.GithubID,
		"name":           r.Name,
		"full_name":      r.FullName,
		"description":    r.Description,
		"url":            r.URL,
		"default_branch": r.DefaultBranch,
		"is_private":     r.IsPrivate,
		"language":       r.Language,
		"is_pinned":      r.IsPinned,
		"last_synced_at": r.LastSyncedAt,
		"created_at":     r.CreatedAt,
		"updated_at":     r.UpdatedAt,
	}
}
