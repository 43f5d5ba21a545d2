package tasksrepo

import (
	"strings"
	"time"

	"github.com/jrazmi/anchorboard/sdk/validation"
)

// Type classifies a task the way code annotations do.
type Type string

const (
	TypeTodo       Type = "TODO"
	TypeFixme      Type = "FIXME"
	TypeBug        Type = "BUG"
	TypeAlert      Type = "ALERT"
	TypeHack       Type = "HACK"
	TypeNote       Type = "NOTE"
	TypeOptimize   Type = "OPTIMIZE"
	TypeSecurity   Type = "SECURITY"
	TypeDeprecated Type = "DEPRECATED"
	TypeReview     Type = "REVIEW"
)

// Types lists every task type in display order.
var Types = []Type{
	TypeTodo, TypeFixme, TypeBug, TypeAlert, TypeHack,
	TypeNote, TypeOptimize, TypeSecurity, TypeDeprecated, TypeReview,
}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// IsOpen reports whether the task still counts as outstanding work.
func (s Status) IsOpen() bool {
	return s == StatusOpen || s == StatusInProgress
}

// Task is a persisted task row.
type Task struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	RepositoryID string    `db:"repository_id" json:"repositoryId"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description"`
	Type         Type      `db:"type" json:"type"`
	Priority     Priority  `db:"priority" json:"priority"`
	Status       Status    `db:"status" json:"status"`
	FilePath     *string   `db:"file_path" json:"filePath"`
	LineStart    *int      `db:"line_start" json:"lineStart"`
	LineEnd      *int      `db:"line_end" json:"lineEnd"`
	CommitSHA    *string   `db:"commit_sha" json:"commitSha"`
	IsStarred    bool      `db:"is_starred" json:"isStarred"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// HasAnchor reports whether the task points at a file.
func (t Task) HasAnchor() bool {
	return t.FilePath != nil && *t.FilePath != ""
}

// TaskWithRepo is a task joined with the name of its repository.
type TaskWithRepo struct {
	Task
	RepositoryName     string `db:"repository_name" json:"repositoryName"`
	RepositoryFullName string `db:"repository_full_name" json:"repositoryFullName"`
	RepositoryGithubID int64  `db:"repository_github_id" json:"repositoryGithubId"`
}

// TaskSummary is the reduced projection used by the activity feed.
type TaskSummary struct {
	ID                 string    `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	Type               Type      `db:"type" json:"type"`
	Status             Status    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
	RepositoryName     string    `db:"repository_name" json:"repositoryName"`
	RepositoryFullName string    `db:"repository_full_name" json:"repositoryFullName"`
}

// Anchor pins a task to a line range of a file at a commit.
type Anchor struct {
	File      string `json:"file"`
	SHA       string `json:"sha"`
	LineStart *int   `json:"lineStart"`
	LineEnd   *int   `json:"lineEnd"`
}

// NewTask is the input for creating a task. Empty Type and Priority fall
// back to TODO and medium.
type NewTask struct {
	RepositoryID string   `json:"repositoryId"`
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Type         Type     `json:"type"`
	Priority     Priority `json:"priority"`
	Anchor       *Anchor  `json:"context"`
}

func (n NewTask) normalized() NewTask {
	n.Title = strings.TrimSpace(n.Title)
	if n.Type == "" {
		n.Type = TypeTodo
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	n.Description = validation.TrimmedPtr(n.Description)
	if n.Anchor != nil {
		// Line 0 means no line, like an absent field.
		a := *n.Anchor
		a.LineStart = positiveOrNil(a.LineStart)
		a.LineEnd = positiveOrNil(a.LineEnd)
		n.Anchor = &a
	}
	return n
}

func positiveOrNil(v *int) *int {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
