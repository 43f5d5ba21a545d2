// Package dashboard computes the read-only summaries shown on the landing
// page. Every call re-reads the stores.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const (
	DefaultActivityLimit = 10
	DefaultPinnedLimit   = reposrepo.DefaultPinnedLimit
)

// newWindow is how far back a task still counts as new.
const newWindow = 24 * time.Hour

// Tasks is the subset of the task repository the dashboard reads.
type Tasks interface {
	ListForUser(ctx context.Context, userID string) ([]tasksrepo.TaskWithRepo, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]tasksrepo.TaskSummary, error)
}

// Repos is the subset of the repository mirror the dashboard reads.
type Repos interface {
	Count(ctx context.Context, userID string) (int, error)
	ListPinned(ctx context.Context, userID string, limit int) ([]reposrepo.Repo, error)
}

// Stats are the headline counters.
type Stats struct {
	TotalRepos            int `json:"totalRepos"`
	OpenTasks             int `json:"openTasks"`
	CompletedTasks        int `json:"completedTasks"`
	Anchors               int `json:"anchors"`
	NewOpenSinceYesterday int `json:"newOpenSinceYesterday"`
}

// TaskCounts summarises the tasks of one repository. Archived tasks count
// toward Total only.
type TaskCounts struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	Completed int `json:"completed"`
}

type Service struct {
	log   *logger.Logger
	tasks Tasks
	repos Repos
	now   func() time.Time
}

func NewService(log *logger.Logger, tasks Tasks, repos Repos) *Service {
	return &Service{
		log:   log,
		tasks: tasks,
		repos: repos,
		now:   time.Now,
	}
}

// Stats scans the user's full task set.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	total, err := s.repos.Count(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count repositories: %w", err)
	}

	tasks, err := s.tasks.ListForUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("list tasks: %w", err)
	}

	since := s.now().Add(-newWindow)
	stats := Stats{TotalRepos: total}
	for _, t := range tasks {
		open := t.Status.IsOpen()
		switch {
		case open:
			stats.OpenTasks++
		case t.Status == tasksrepo.StatusCompleted:
			stats.CompletedTasks++
		}
		if t.HasAnchor() {
			stats.Anchors++
		}
		if open && t.CreatedAt.After(since) {
			stats.NewOpenSinceYesterday++
		}
	}
	return stats, nil
}

// TaskCountsByRepository keys the per-repository counts by GitHub id.
// Repositories without tasks are absent.
func (s *Service) TaskCountsByRepository(ctx context.Context, userID string) (map[int64]TaskCounts, error) {
	tasks, err := s.tasks.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	counts := make(map[int64]TaskCounts)
	for _, t := range tasks {
		if t.RepositoryGithubID == 0 {
			continue
		}
		c := counts[t.RepositoryGithubID]
		c.Total++
		switch {
		case t.Status.IsOpen():
			c.Open++
		case t.Status == tasksrepo.StatusCompleted:
			c.Completed++
		}
		counts[t.RepositoryGithubID] = c
	}
	return counts, nil
}

// RecentActivity returns the most recently touched tasks. A non-positive
// limit uses DefaultActivityLimit.
func (s *Service) RecentActivity(ctx context.Context, userID string, limit int) ([]tasksrepo.TaskSummary, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	recent, err := s.tasks.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return recent, nil
}

func (s *Service) PinnedRepositories(ctx context.Context, userID string, limit int) ([]reposrepo.Repo, error) {
	if limit <= 0 {
		limit = DefaultPinnedLimit
	}
	pinned, err := s.repos.ListPinned(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pinned repositories: %w", err)
	}
	return pinned, nil
}
