package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, serverURL ...*string) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	for _, u := range serverURL {
		*u = srv.URL
	}
	return New(nil, WithBaseURL(srv.URL))
}

func TestListUserRepos(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		fmt.Fprint(w, `[{"id":42,"name":"widgets","full_name":"acme/widgets","html_url":"https://github.com/acme/widgets","default_branch":"main","private":true,"language":"Go"}]`)
	})

	repos, err := c.ListUserRepos(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, int64(42), repos[0].ID)
	assert.Equal(t, "acme/widgets", repos[0].FullName)
	assert.True(t, repos[0].Private)
	require.NotNil(t, repos[0].Language)
	assert.Equal(t, "Go", *repos[0].Language)
	assert.Nil(t, repos[0].Description)
}

func TestGetTree(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/git/trees/main", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("recursive"))
		fmt.Fprint(w, `{"sha":"root","truncated":false,"tree":[{"path":"src","type":"tree","sha":"s1","url":"u1"},{"path":"src/main.go","type":"blob","sha":"s2","url":"u2"}]}`)
	})

	tree, err := c.GetTree(context.Background(), "tok", "acme/widgets", "main")
	require.NoError(t, err)
	require.Len(t, tree.Tree, 2)
	assert.Equal(t, "src/main.go", tree.Tree[1].Path)
	assert.Equal(t, "blob", tree.Tree[1].Type)
}

func TestGetContentsFileAndDirectory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widgets/contents/src":
			fmt.Fprint(w, `[{"name":"main.go","path":"src/main.go","type":"file","sha":"s2"}]`)
		case "/repos/acme/widgets/contents/README.md":
			fmt.Fprint(w, `{"name":"README.md","path":"README.md","type":"file","sha":"s3","encoding":"base64","content":"aGk="}`)
		default:
			http.NotFound(w, r)
		}
	})

	dir, err := c.GetContents(context.Background(), "tok", "acme/widgets", "src")
	require.NoError(t, err)
	require.Len(t, dir, 1)
	assert.Equal(t, "src/main.go", dir[0].Path)

	file, err := c.GetContents(context.Background(), "tok", "acme/widgets", "/README.md")
	require.NoError(t, err)
	require.Len(t, file, 1)
	assert.Equal(t, "base64", file[0].Encoding)
}

func TestGetBlobRaw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/git/blobs/abc", r.URL.Path)
		assert.Contains(t, r.Header.Get("Accept"), "raw")
		fmt.Fprint(w, "package main\n")
	})

	data, err := c.GetBlob(context.Background(), "tok", "acme/widgets", "abc")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
}

func TestListUserReposFollowsPages(t *testing.T) {
	var srvURL string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id":2,"full_name":"acme/b"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/user/repos?page=2>; rel="next"`, srvURL))
		fmt.Fprint(w, `[{"id":1,"full_name":"acme/a"}]`)
	}, &srvURL)

	repos, err := c.ListUserRepos(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "acme/b", repos[1].FullName)
}

func TestEmptyTokenSendsNoAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":7,"full_name":"acme/widgets"}`)
	})

	repo, err := c.GetRepoByID(context.Background(), "", 7)
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", repo.FullName)
}

func TestInvalidFullName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Expected no request, got %s", r.URL.Path)
	})

	_, err := c.GetTree(context.Background(), "tok", "widgets", "main")
	require.Error(t, err)
}

func TestUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"rate limited"}`)
	})

	_, err := c.GetRepoByID(context.Background(), "tok", 7)
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
	assert.Equal(t, "Forbidden", upErr.Status)
	assert.Equal(t, "Failed to fetch repo: Forbidden", err.Error())
}
