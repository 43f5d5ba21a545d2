// Package tasksrepo stores the tasks a user attaches to their repositories.
// Every operation is scoped to the authenticated user.
package tasksrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Storer is the persistence contract for tasks. Implementations return
// repositories.ErrNotFound when a row does not exist for the given user.
type Storer interface {
	// Create inserts task when its repository belongs to task.UserID.
	Create(ctx context.Context, task Task) (Task, error)
	Get(ctx context.Context, userID, taskID string) (Task, error)
	ListByRepository(ctx context.Context, userID, repositoryID string) ([]Task, error)
	ListByUser(ctx context.Context, userID string) ([]TaskWithRepo, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]TaskSummary, error)
	UpdateStatus(ctx context.Context, userID, taskID string, status Status, updatedAt time.Time) error
	ToggleStar(ctx context.Context, userID, taskID string) (bool, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// Repository manages the set of APIs for task access.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// NewRepository creates a new Task repository
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// ListForRepository returns the tasks of one repository, newest first.
func (r *Repository) ListForRepository(ctx context.Context, userID, repositoryID string) ([]Task, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return nil, err
	}
	if !validID(repositoryID) {
		return []Task{}, nil
	}

	tasks, err := r.storer.ListByRepository(ctx, userID, repositoryID)
	if err != nil {
		return nil, repositories.Persistence("list tasks for repository", err)
	}
	return tasks, nil
}

// ListForUser returns every task of the user joined with its repository,
// newest first.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]TaskWithRepo, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return nil, err
	}

	tasks, err := r.storer.ListByUser(ctx, userID)
	if err != nil {
		return nil, repositories.Persistence("list tasks", err)
	}
	return tasks, nil
}

// ListRecent returns the most recently updated tasks.
func (r *Repository) ListRecent(ctx context.Context, userID string, limit int) ([]TaskSummary, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return nil, err
	}

	tasks, err := r.storer.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, repositories.Persistence("list recent tasks", err)
	}
	return tasks, nil
}

// Get returns one task.
func (r *Repository) Get(ctx context.Context, userID, taskID string) (Task, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return Task{}, err
	}
	if !validID(taskID) {
		return Task{}, repositories.ErrNotFound
	}

	task, err := r.storer.Get(ctx, userID, taskID)
	if err != nil {
		return Task{}, repositories.Persistence("get task", err)
	}
	return task, nil
}

// Create persists a new open task. The anchor, when present, maps onto the
// file path, commit and line columns.
func (r *Repository) Create(ctx context.Context, userID string, input NewTask) (Task, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return Task{}, err
	}

	input = input.normalized()
	if err := validateNew(input); err != nil {
		return Task{}, err
	}
	if !validID(input.RepositoryID) {
		return Task{}, repositories.ErrNotFound
	}

	now := r.now().UTC()
	task := Task{
		ID:           uuid.NewString(),
		UserID:       userID,
		RepositoryID: input.RepositoryID,
		Title:        input.Title,
		Description:  input.Description,
		Type:         input.Type,
		Priority:     input.Priority,
		Status:       StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if a := input.Anchor; a != nil {
		file, sha := a.File, a.SHA
		task.FilePath = &file
		task.CommitSHA = &sha
		task.LineStart = a.LineStart
		task.LineEnd = a.LineEnd
	}

	created, err := r.storer.Create(ctx, task)
	if err != nil {
		return Task{}, repositories.Persistence("create task", err)
	}

	r.log.DebugContext(ctx, "task created", "task_id", created.ID, "repository_id", created.RepositoryID, "type", created.Type)
	return created, nil
}

// UpdateStatus marks a task completed or open. Any other status collapses to
// open when completed is false.
func (r *Repository) UpdateStatus(ctx context.Context, userID, taskID string, completed bool) error {
	status := StatusOpen
	if completed {
		status = StatusCompleted
	}
	return r.setStatus(ctx, userID, taskID, status)
}

// SetStatus moves a task to any of the four statuses.
func (r *Repository) SetStatus(ctx context.Context, userID, taskID string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", repositories.ErrInvalidInput, status)
	}
	return r.setStatus(ctx, userID, taskID, status)
}

func (r *Repository) setStatus(ctx context.Context, userID, taskID string, status Status) error {
	if err := repositories.RequireUser(userID); err != nil {
		return err
	}
	if !validID(taskID) {
		return repositories.ErrNotFound
	}

	if err := r.storer.UpdateStatus(ctx, userID, taskID, status, r.now().UTC()); err != nil {
		return repositories.Persistence("update task status", err)
	}
	return nil
}

// ToggleStar flips the star flag and returns the new value.
func (r *Repository) ToggleStar(ctx context.Context, userID, taskID string) (bool, error) {
	if err := repositories.RequireUser(userID); err != nil {
		return false, err
	}
	if !validID(taskID) {
		return false, repositories.ErrNotFound
	}

	starred, err := r.storer.ToggleStar(ctx, userID, taskID)
	if err != nil {
		return false, repositories.Persistence("toggle task star", err)
	}
	return starred, nil
}

// Delete removes a task permanently.
func (r *Repository) Delete(ctx context.Context, userID, taskID string) error {
	if err := repositories.RequireUser(userID); err != nil {
		return err
	}
	if !validID(taskID) {
		return repositories.ErrNotFound
	}

	if err := r.storer.Delete(ctx, userID, taskID); err != nil {
		return repositories.Persistence("delete task", err)
	}
	r.log.DebugContext(ctx, "task deleted", "task_id", taskID)
	return nil
}

// validID reports whether id has the shape of a stored id. Anything else can
// never match a row.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
