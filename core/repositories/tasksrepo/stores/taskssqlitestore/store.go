// Package taskssqlitestore implements tasksrepo.Storer on SQLite.
package taskssqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const taskColumns = `t.id, t.user_id, t.repository_id, t.title, t.description, t.type, t.priority, t.status,
	t.file_path, t.line_start, t.line_end, t.commit_sha, t.is_starred, t.created_at, t.updated_at`

// Store provides database access for tasks.
type Store struct {
	log *logger.Logger
	db  *sql.DB
}

// NewStore creates a new Task store
func NewStore(log *logger.Logger, db *sql.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func taskFields(t *tasksrepo.Task) []any {
	return []any{
		&t.ID, &t.UserID, &t.RepositoryID, &t.Title, &t.Description, &t.Type, &t.Priority, &t.Status,
		&t.FilePath, &t.LineStart, &t.LineEnd, &t.CommitSHA, &t.IsStarred, &t.CreatedAt, &t.UpdatedAt,
	}
}

func scanTask(row scanner) (tasksrepo.Task, error) {
	var t tasksrepo.Task
	if err := row.Scan(taskFields(&t)...); err != nil {
		return tasksrepo.Task{}, err
	}
	return t, nil
}

// Create inserts the task only when its repository belongs to the same user.
// No inserted row means the repository is unknown to that user.
func (s *Store) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	const query = `
	INSERT INTO tasks (
		id, user_id, repository_id, title, description, type, priority, status,
		file_path, line_start, line_end, commit_sha, is_starred, created_at, updated_at
	)
	SELECT ?, r.user_id, r.id, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
	FROM repositories r
	WHERE r.id = ? AND r.user_id = ?`

	res, err := s.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Type, task.Priority, task.Status,
		task.FilePath, task.LineStart, task.LineEnd, task.CommitSHA, task.IsStarred,
		task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
		task.RepositoryID, task.UserID,
	)
	if err != nil {
		return tasksrepo.Task{}, sqlitedb.HandleError(err)
	}
	if err := requireAffected(res); err != nil {
		return tasksrepo.Task{}, err
	}

	// Re-read so timestamps come back through the DATETIME column type.
	return s.Get(ctx, task.UserID, task.ID)
}

func (s *Store) Get(ctx context.Context, userID, taskID string) (tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = ? AND t.user_id = ?`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, userID))
	if err != nil {
		return tasksrepo.Task{}, sqlitedb.HandleError(err)
	}
	return task, nil
}

func (s *Store) ListByRepository(ctx context.Context, userID, repositoryID string) ([]tasksrepo.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t
	WHERE t.user_id = ? AND t.repository_id = ?
	ORDER BY t.created_at DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, repositoryID)
	if err != nil {
		return nil, sqlitedb.HandleError(err)
	}
	defer rows.Close()

	tasks := []tasksrepo.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, sqlitedb.HandleError(err)
		}
		tasks = append(tasks, task)
	}
	return tasks, sqlitedb.HandleError(rows.Err())
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]tasksrepo.TaskWithRepo, error) {
	query := `SELECT ` + taskColumns + `, r.name, r.full_name, r.github_id
	FROM tasks t
	JOIN repositories r ON r.id = t.repository_id AND r.user_id = t.user_id
	WHERE t.user_id = ?
	ORDER BY t.created_at DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, sqlitedb.HandleError(err)
	}
	defer rows.Close()

	tasks := []tasksrepo.TaskWithRepo{}
	for rows.Next() {
		var t tasksrepo.TaskWithRepo
		dest := append(taskFields(&t.Task), &t.RepositoryName, &t.RepositoryFullName, &t.RepositoryGithubID)
		if err := rows.Scan(dest...); err != nil {
			return nil, sqlitedb.HandleError(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, sqlitedb.HandleError(rows.Err())
}

func (s *Store) ListRecent(ctx context.Context, userID string, limit int) ([]tasksrepo.TaskSummary, error) {
	query := `SELECT t.id, t.title, t.type, t.status, t.created_at, t.updated_at, r.name, r.full_name
	FROM tasks t
	JOIN repositories r ON r.id = t.repository_id AND r.user_id = t.user_id
	WHERE t.user_id = ?
	ORDER BY t.updated_at DESC, t.id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlitedb.HandleError(err)
	}
	defer rows.Close()

	tasks := []tasksrepo.TaskSummary{}
	for rows.Next() {
		var t tasksrepo.TaskSummary
		if err := rows.Scan(&t.ID, &t.Title, &t.Type, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.RepositoryName, &t.RepositoryFullName); err != nil {
			return nil, sqlitedb.HandleError(err)
		}
		tasks = append(tasks, t)
	}
	return tasks, sqlitedb.HandleError(rows.Err())
}

func (s *Store) UpdateStatus(ctx context.Context, userID, taskID string, status tasksrepo.Status, updatedAt time.Time) error {
	const query = `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`

	res, err := s.db.ExecContext(ctx, query, status, updatedAt.UTC(), taskID, userID)
	if err != nil {
		return sqlitedb.HandleError(err)
	}
	return requireAffected(res)
}

// ToggleStar flips is_starred in a single statement so concurrent toggles
// never read a stale value.
func (s *Store) ToggleStar(ctx context.Context, userID, taskID string) (bool, error) {
	const query = `UPDATE tasks SET is_starred = NOT is_starred WHERE id = ? AND user_id = ? RETURNING is_starred`

	var starred bool
	if err := s.db.QueryRowContext(ctx, query, taskID, userID).Scan(&starred); err != nil {
		return false, sqlitedb.HandleError(err)
	}
	return starred, nil
}

func (s *Store) Delete(ctx context.Context, userID, taskID string) error {
	const query = `DELETE FROM tasks WHERE id = ? AND user_id = ?`

	res, err := s.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return sqlitedb.HandleError(err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sqlitedb.ErrNotFound
	}
	return nil
}
