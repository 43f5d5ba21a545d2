package reposrepobridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/anchorboard/bridge/repositories/reposrepobridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo/stores/repossqlitestore"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGitHub struct {
	tree     githubapi.Tree
	blob     []byte
	err      error
	gotRef   string
	gotToken string
}

func (f *fakeGitHub) GetTree(_ context.Context, token, _, ref string) (githubapi.Tree, error) {
	f.gotRef, f.gotToken = ref, token
	return f.tree, f.err
}

func (f *fakeGitHub) GetBlob(_ context.Context, token, _, _ string) ([]byte, error) {
	f.gotToken = token
	return f.blob, f.err
}

func asUser(userID string) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			return next(mid.WithUser(ctx, userID, "gho_test"), r)
		}
	}
}

func setup(t *testing.T, gh *fakeGitHub) *web.WebHandler {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	db, err := sqlitedb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlitedb.Migrate(ctx, log, db)
	require.NoError(t, err)

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log), asUser("u1")))
	reposrepobridge.AddHttpRoutes(h.Group("/api/v1"), reposrepobridge.Config{
		Log:        log,
		Repository: reposrepo.NewRepository(log, repossqlitestore.NewStore(log, db)),
		GitHub:     gh,
	})
	return h
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

type repoRecord struct {
	Record reposrepo.Repo `json:"record"`
}

func ensure(t *testing.T, h http.Handler) reposrepo.Repo {
	t.Helper()
	w := do(h, http.MethodPost, "/api/v1/repositories",
		`{"githubId":77,"name":"web","fullName":"acme/web","url":"https://github.com/acme/web","defaultBranch":"develop"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rec repoRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	return rec.Record
}

func TestEnsureAndPin(t *testing.T) {
	h := setup(t, &fakeGitHub{})

	first := ensure(t, h)
	second := ensure(t, h)
	assert.Equal(t, first.ID, second.ID)

	w := do(h, http.MethodPost, "/api/v1/repositories/"+first.ID+"/pin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isPinned":true}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/v1/repositories/pinned", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), first.ID)

	w = do(h, http.MethodGet, "/api/v1/repositories/pinned?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodGet, "/api/v1/repositories/"+first.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodGet, "/api/v1/repositories/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTree(t *testing.T) {
	gh := &fakeGitHub{tree: githubapi.Tree{
		SHA: "root",
		Tree: []githubapi.TreeEntry{
			{Path: "src/a.ts", Type: "blob", SHA: "1"},
			{Path: "src", Type: "tree", SHA: "2"},
			{Path: "README.md", Type: "blob", SHA: "3"},
			{Path: "lib/x.go", Type: "blob", SHA: "4"},
		},
	}}
	h := setup(t, gh)
	repo := ensure(t, h)

	w := do(h, http.MethodGet, "/api/v1/repositories/"+repo.ID+"/tree", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "develop", gh.gotRef)
	assert.Equal(t, "gho_test", gh.gotToken)

	var resp struct {
		Ref         string   `json:"ref"`
		Synthesized []string `json:"synthesized"`
		Tree        []struct {
			Name        string `json:"name"`
			Type        string `json:"type"`
			Placeholder bool   `json:"placeholder"`
		} `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tree, 3)
	assert.Equal(t, "lib", resp.Tree[0].Name)
	assert.True(t, resp.Tree[0].Placeholder)
	assert.Equal(t, "src", resp.Tree[1].Name)
	assert.Equal(t, "README.md", resp.Tree[2].Name)
	assert.Equal(t, []string{"lib"}, resp.Synthesized)

	w = do(h, http.MethodGet, "/api/v1/repositories/"+repo.ID+"/tree?ref=v1.0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1.0", gh.gotRef)
}

func TestBlobAndUpstreamFailure(t *testing.T) {
	gh := &fakeGitHub{blob: []byte("package main\n")}
	h := setup(t, gh)
	repo := ensure(t, h)

	w := do(h, http.MethodGet, "/api/v1/repositories/"+repo.ID+"/blobs/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "package main\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	gh.err = &githubapi.UpstreamError{Op: "file content", StatusCode: http.StatusNotFound, Status: "Not Found"}
	w = do(h, http.MethodGet, "/api/v1/repositories/"+repo.ID+"/blobs/abc", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch file content: Not Found")
}
