package reposrepo

import (
	"strings"
	"time"
)

// Repo is the local mirror of a GitHub repository for one user.
type Repo struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"userId"`
	GithubID      int64      `db:"github_id" json:"githubId"`
	Name          string     `db:"name" json:"name"`
	FullName      string     `db:"full_name" json:"fullName"`
	Description   *string    `db:"description" json:"description"`
	URL           string     `db:"url" json:"url"`
	DefaultBranch string     `db:"default_branch" json:"defaultBranch"`
	IsPrivate     bool       `db:"is_private" json:"isPrivate"`
	Language      *string    `db:"language" json:"language"`
	IsPinned      bool       `db:"is_pinned" json:"isPinned"`
	LastSyncedAt  *time.Time `db:"last_synced_at" json:"lastSyncedAt"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// GithubRepo is the upstream metadata a Repo is created from.
type GithubRepo struct {
	GithubID      int64   `json:"githubId"`
	Name          string  `json:"name"`
	FullName      string  `json:"fullName"`
	Description   *string `json:"description"`
	URL           string  `json:"url"`
	DefaultBranch string  `json:"defaultBranch"`
	IsPrivate     bool    `json:"isPrivate"`
	Language      *string `json:"language"`
}

const defaultBranch = "main"

func (g GithubRepo) normalized() GithubRepo {
	g.Name = strings.TrimSpace(g.Name)
	g.FullName = strings.TrimSpace(g.FullName)
	if g.DefaultBranch == "" {
		g.DefaultBranch = defaultBranch
	}
	if g.Name == "" {
		if _, name, ok := strings.Cut(g.FullName, "/"); ok {
			g.Name = name
		}
	}
	return g
}
