// Package githubapi wraps go-github for the REST endpoints the dashboard
// reads: the user's repositories, git trees, contents and blobs.
package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const perPage = 100

// UpstreamError is returned for any non-2xx GitHub response.
type UpstreamError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Failed to fetch %s: %s", e.Op, e.Status)
}

// Options is the environment driven client configuration.
type Options struct {
	BaseURL   string        `env:"GITHUB_API_URL" default:"https://api.github.com"`
	Timeout   time.Duration `env:"GITHUB_TIMEOUT" default:"15s"`
	UserAgent string        `env:"GITHUB_USER_AGENT" default:"anchorboard"`
}

type Option func(*Options)

// WithBaseURL points the client at another API root, such as a test server.
func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.BaseURL = u
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// Client talks to the GitHub REST API using a per-call OAuth token.
type Client struct {
	log *logger.Logger
	gh  *github.Client
}

// NewFromEnv builds a client from prefixed environment variables.
func NewFromEnv(prefix string, log *logger.Logger, opts ...Option) (*Client, error) {
	var o Options
	if err := environment.ParseEnvTags(prefix, &o); err != nil {
		return nil, fmt.Errorf("parsing github config: %w", err)
	}
	return newClient(o, log, opts...)
}

// New builds a client with default options. It panics on a malformed base
// URL, which only a caller supplied option can produce.
func New(log *logger.Logger, opts ...Option) *Client {
	c, err := newClient(Options{
		BaseURL:   "https://api.github.com",
		Timeout:   15 * time.Second,
		UserAgent: "anchorboard",
	}, log, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func newClient(o Options, log *logger.Logger, opts ...Option) (*Client, error) {
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(strings.TrimSuffix(o.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing github base url: %w", err)
	}

	gh := github.NewClient(&http.Client{Timeout: o.Timeout})
	gh.BaseURL = base
	if o.UserAgent != "" {
		gh.UserAgent = o.UserAgent
	}

	return &Client{log: log, gh: gh}, nil
}

// as returns a client authenticated with the caller's provider token. An
// empty token sends unauthenticated requests.
func (c *Client) as(token string) *github.Client {
	if token == "" {
		return c.gh
	}
	return c.gh.WithAuthToken(token)
}

// ListUserRepos returns the repositories visible to the token's user, most
// recently updated first.
func (c *Client) ListUserRepos(ctx context.Context, token string) ([]Repo, error) {
	gh := c.as(token)
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var repos []Repo
	for {
		start := time.Now()
		page, resp, err := gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		c.trace(ctx, "repositories", resp, start)
		if err != nil {
			return nil, upstream("repositories", resp, err)
		}
		for _, r := range page {
			repos = append(repos, toRepo(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

// GetRepoByID looks a repository up by its numeric GitHub id.
func (c *Client) GetRepoByID(ctx context.Context, token string, id int64) (Repo, error) {
	start := time.Now()
	r, resp, err := c.as(token).Repositories.GetByID(ctx, id)
	c.trace(ctx, "repo", resp, start)
	if err != nil {
		return Repo{}, upstream("repo", resp, err)
	}
	return toRepo(r), nil
}

// GetTree returns the recursive git tree at ref, a branch name or sha.
func (c *Client) GetTree(ctx context.Context, token, fullName, ref string) (Tree, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return Tree{}, err
	}

	start := time.Now()
	t, resp, err := c.as(token).Git.GetTree(ctx, owner, name, ref, true)
	c.trace(ctx, "tree", resp, start)
	if err != nil {
		return Tree{}, upstream("tree", resp, err)
	}

	tree := Tree{
		SHA:       t.GetSHA(),
		Truncated: t.GetTruncated(),
		Tree:      make([]TreeEntry, 0, len(t.Entries)),
	}
	for _, e := range t.Entries {
		tree.Tree = append(tree.Tree, TreeEntry{
			Path: e.GetPath(),
			Mode: e.GetMode(),
			Type: e.GetType(),
			SHA:  e.GetSHA(),
			Size: int64(e.GetSize()),
			URL:  e.GetURL(),
		})
	}
	return tree, nil
}

// GetContents lists a directory, or describes a file, at path on the default
// branch.
func (c *Client) GetContents(ctx context.Context, token, fullName, path string) ([]Content, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	file, dir, resp, err := c.as(token).Repositories.GetContents(ctx, owner, name, strings.Trim(path, "/"), nil)
	c.trace(ctx, "contents", resp, start)
	if err != nil {
		return nil, upstream("contents", resp, err)
	}

	if file != nil {
		return []Content{toContent(file)}, nil
	}
	items := make([]Content, 0, len(dir))
	for _, d := range dir {
		items = append(items, toContent(d))
	}
	return items, nil
}

// GetBlob returns the raw bytes of the blob with the given sha.
func (c *Client) GetBlob(ctx context.Context, token, fullName, sha string) ([]byte, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, resp, err := c.as(token).Git.GetBlobRaw(ctx, owner, name, sha)
	c.trace(ctx, "file content", resp, start)
	if err != nil {
		return nil, upstream("file content", resp, err)
	}
	return data, nil
}

func (c *Client) trace(ctx context.Context, op string, resp *github.Response, start time.Time) {
	if c.log == nil || resp == nil || resp.Response == nil || resp.Request == nil {
		return
	}
	c.log.DebugContext(ctx, "github request",
		"op", op,
		"path", resp.Request.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start))
}

// upstream turns a non-2xx response into an UpstreamError. Transport
// failures are wrapped as is.
func upstream(op string, resp *github.Response, err error) error {
	status := 0
	var errResp *github.ErrorResponse
	switch {
	case errors.As(err, &errResp) && errResp.Response != nil:
		status = errResp.Response.StatusCode
	case resp != nil && resp.Response != nil:
		status = resp.StatusCode
	}

	if status < 200 || status > 299 {
		if status == 0 {
			return fmt.Errorf("fetch %s: %w", op, err)
		}
		return &UpstreamError{
			Op:         op,
			StatusCode: status,
			Status:     http.StatusText(status),
		}
	}
	return fmt.Errorf("decode %s: %w", op, err)
}

func splitFullName(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository name %q", fullName)
	}
	return owner, name, nil
}

func toRepo(r *github.Repository) Repo {
	repo := Repo{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.Description,
		HTMLURL:       r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Private:       r.GetPrivate(),
		Language:      r.Language,
		Owner: Owner{
			Login: r.GetOwner().GetLogin(),
			ID:    r.GetOwner().GetID(),
		},
	}
	if r.UpdatedAt != nil {
		repo.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	}
	return repo
}

func toContent(c *github.RepositoryContent) Content {
	// GetContent decodes, so the encoded field is read directly.
	var encoded string
	if c.Content != nil {
		encoded = *c.Content
	}
	return Content{
		Name:        c.GetName(),
		Path:        c.GetPath(),
		SHA:         c.GetSHA(),
		Size:        int64(c.GetSize()),
		Type:        c.GetType(),
		URL:         c.GetURL(),
		DownloadURL: c.DownloadURL,
		Content:     encoded,
		Encoding:    c.GetEncoding(),
	}
}
