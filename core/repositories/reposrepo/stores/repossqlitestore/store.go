// Package repossqlitestore implements reposrepo.Storer on SQLite.
package repossqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const repoColumns = `id, user_id, github_id, name, full_name, description, url, default_branch,
	is_private, language, is_pinned, last_synced_at, created_at, updated_at`

// Store provides database access for repositories.
type Store struct {
	log *logger.Logger
	db  *sql.DB
}

// NewStore creates a new Repo store
func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRepo(row scanner) (reposrepo.Repo, error) {
	var r reposrepo.Repo
	err := row.Scan(&r.ID, &r.UserID, &r.GithubID, &r.Name, &r.FullName, &r.Description, &r.URL, &r.DefaultBranch,
		&r.IsPrivate, &r.Language, &r.IsPinned, &r.LastSyncedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return reposrepo.Repo{}, err
	}
	return r, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func (s *Store) Create(ctx context.Context, repo reposrepo.Repo) (reposrepo.Repo, error) {
	const query = `
	INSERT INTO repositories (
		id, user_id, github_id, name, full_name, description, url, default_branch,
		is_private, language, is_pinned, last_synced_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		repo.ID, repo.UserID, repo.GithubID, repo.Name, repo.FullName, repo.Description, repo.URL, repo.DefaultBranch,
		repo.IsPrivate, repo.Language, repo.IsPinned, utcPtr(repo.LastSyncedAt), repo.CreatedAt.UTC(), repo.UpdatedAt.UTC(),
	)
	if err != nil {
		return reposrepo.Repo{}, sqlitedb.HandleError(err)
	}
	return s.Get(ctx, repo.UserID, repo.ID)
}

func (s *Store) Get(ctx context.Context, userID, repositoryID string) (reposrepo.Repo, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE id = ? AND user_id = ?`

	repo, err := scanRepo(s.db.QueryRowContext(ctx, query, repositoryID, userID))
	if err != nil {
		return reposrepo.Repo{}, sqlitedb.HandleError(err)
	}
	return repo, nil
}

func (s *Store) GetByGithubID(ctx context.Context, userID string, githubID int64) (reposrepo.Repo, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE github_id = ? AND user_id = ?`

	repo, err := scanRepo(s.db.QueryRowContext(ctx, query, githubID, userID))
	if err != nil {
		return reposrepo.Repo{}, sqlitedb.HandleError(err)
	}
	return repo, nil
}

func (s *Store) UpdateMetadata(ctx context.Context, repo reposrepo.Repo) (reposrepo.Repo, error) {
	const query = `
	UPDATE repositories SET
		name = ?, full_name = ?, description = ?, url = ?, default_branch = ?,
		is_private = ?, language = ?, last_synced_at = ?, updated_at = ?
	WHERE id = ? AND user_id = ?`

	res, err := s.db.ExecContext(ctx, query,
		repo.Name, repo.FullName, repo.Description, repo.URL, repo.DefaultBranch,
		repo.IsPrivate, repo.Language, utcPtr(repo.LastSyncedAt), repo.UpdatedAt.UTC(),
		repo.ID, repo.UserID,
	)
	if err != nil {
		return reposrepo.Repo{}, sqlitedb.HandleError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return reposrepo.Repo{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return reposrepo.Repo{}, sqlitedb.ErrNotFound
	}
	return s.Get(ctx, repo.UserID, repo.ID)
}

// TogglePin flips is_pinned in a single statement.
func (s *Store) TogglePin(ctx context.Context, userID, repositoryID string) (bool, error) {
	const query = `UPDATE repositories SET is_pinned = NOT is_pinned WHERE id = ? AND user_id = ? RETURNING is_pinned`

	var pinned bool
	if err := s.db.QueryRowContext(ctx, query, repositoryID, userID).Scan(&pinned); err != nil {
		return false, sqlitedb.HandleError(err)
	}
	return pinned, nil
}

func (s *Store) ListPinned(ctx context.Context, userID string, limit int) ([]reposrepo.Repo, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories
	WHERE user_id = ? AND is_pinned
	ORDER BY updated_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryMany(ctx, query, args...)
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]reposrepo.Repo, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE user_id = ? ORDER BY full_name ASC, id ASC`
	return s.queryMany(ctx, query, userID)
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM repositories WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, sqlitedb.HandleError(err)
	}
	return n, nil
}

func (s *Store) queryMany(ctx context.Context, query string, args ...any) ([]reposrepo.Repo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlitedb.HandleError(err)
	}
	defer rows.Close()

	repos := []reposrepo.Repo{}
	for rows.Next() {
		repo, err := scanRepo(rows)
		if err != nil {
			return nil, sqlitedb.HandleError(err)
		}
		repos = append(repos, repo)
	}
	return repos, sqlitedb.HandleError(rows.Err())
}
