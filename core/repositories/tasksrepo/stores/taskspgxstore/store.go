// Package taskspgxstore implements tasksrepo.Storer on Postgres.
package taskspgxstore

import (
	"bytes"
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/infrastructure/postgresdb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const taskColumns = `t.id, t.user_id, t.repository_id, t.title, t.description, t.type, t.priority, t.status,
	t.file_path, t.line_start, t.line_end, t.commit_sha, t.is_starred, t.created_at, t.updated_at`

// Store provides database access for tasks.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore creates a new Task store
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// Create inserts the task only when its repository belongs to the same user.
// No inserted row means the repository is unknown to that user.
func (s *Store) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	const query = `
	WITH t AS (
		INSERT INTO tasks (
			id, user_id, repository_id, title, description, type, priority, status,
			file_path, line_start, line_end, commit_sha, is_starred, created_at, updated_at
		)
		SELECT @id::uuid, r.user_id, r.id, @title::text, @description::text, @type::text, @priority::text, @status::text,
			@file_path::text, @line_start::integer, @line_end::integer, @commit_sha::text, @is_starred::boolean,
			@created_at::timestamptz, @updated_at::timestamptz
		FROM repositories r
		WHERE r.id = @repository_id::uuid AND r.user_id = @user_id
		RETURNING *
	)
	SELECT ` + taskColumns + ` FROM t`

	args := pgx.NamedArgs{
		"id":            task.ID,
		"user_id":       task.UserID,
		"repository_id": task.RepositoryID,
		"title":         task.Title,
		"description":   task.Description,
		"type":          task.Type,
		"priority":      task.Priority,
		"status":        task.Status,
		"file_path":     task.FilePath,
		"line_start":    task.LineStart,
		"line_end":      task.LineEnd,
		"commit_sha":    task.CommitSHA,
		"is_starred":    task.IsStarred,
		"created_at":    task.CreatedAt,
		"updated_at":    task.UpdatedAt,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	return created, nil
}

func (s *Store) Get(ctx context.Context, userID, taskID string) (tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = @id AND t.user_id = @user_id`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"id": taskID, "user_id": userID})
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	task, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	return task, nil
}

func (s *Store) ListByRepository(ctx context.Context, userID, repositoryID string) ([]tasksrepo.Task, error) {
	data := pgx.NamedArgs{"user_id": userID, "repository_id": repositoryID}
	buf := bytes.NewBufferString(`SELECT ` + taskColumns + ` FROM tasks t WHERE t.user_id = @user_id AND t.repository_id = @repository_id`)
	if err := postgresdb.AddOrderByClause(buf, "t.created_at", "t.id", postgresdb.DESC); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, buf.String(), data)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return tasks, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]tasksrepo.TaskWithRepo, error) {
	data := pgx.NamedArgs{"user_id": userID}
	buf := bytes.NewBufferString(`SELECT ` + taskColumns + `,
		r.name AS repository_name, r.full_name AS repository_full_name, r.github_id AS repository_github_id
	FROM tasks t
	JOIN repositories r ON r.id = t.repository_id AND r.user_id = t.user_id
	WHERE t.user_id = @user_id`)
	if err := postgresdb.AddOrderByClause(buf, "t.created_at", "t.id", postgresdb.DESC); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, buf.String(), data)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.TaskWithRepo])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return tasks, nil
}

func (s *Store) ListRecent(ctx context.Context, userID string, limit int) ([]tasksrepo.TaskSummary, error) {
	data := pgx.NamedArgs{"user_id": userID}
	buf := bytes.NewBufferString(`SELECT t.id, t.title, t.type, t.status, t.created_at, t.updated_at,
		r.name AS repository_name, r.full_name AS repository_full_name
	FROM tasks t
	JOIN repositories r ON r.id = t.repository_id AND r.user_id = t.user_id
	WHERE t.user_id = @user_id`)
	if err := postgresdb.AddOrderByClause(buf, "t.updated_at", "t.id", postgresdb.DESC); err != nil {
		return nil, err
	}
	postgresdb.AddLimitClause(limit, data, buf)

	rows, err := s.pool.Query(ctx, buf.String(), data)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	tasks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.TaskSummary])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return tasks, nil
}

func (s *Store) UpdateStatus(ctx context.Context, userID, taskID string, status tasksrepo.Status, updatedAt time.Time) error {
	const query = `UPDATE tasks SET status = @status, updated_at = @updated_at WHERE id = @id AND user_id = @user_id`

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{
		"id":         taskID,
		"user_id":    userID,
		"status":     status,
		"updated_at": updatedAt,
	})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}
	return nil
}

// ToggleStar flips is_starred in a single statement so concurrent toggles
// never read a stale value.
func (s *Store) ToggleStar(ctx context.Context, userID, taskID string) (bool, error) {
	const query = `UPDATE tasks SET is_starred = NOT is_starred WHERE id = @id AND user_id = @user_id RETURNING is_starred`

	var starred bool
	err := s.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": taskID, "user_id": userID}).Scan(&starred)
	if err != nil {
		return false, postgresdb.HandlePgError(err)
	}
	return starred, nil
}

func (s *Store) Delete(ctx context.Context, userID, taskID string) error {
	const query = `DELETE FROM tasks WHERE id = @id AND user_id = @user_id`

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{"id": taskID, "user_id": userID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}
	return nil
}
