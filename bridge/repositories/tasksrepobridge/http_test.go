package tasksrepobridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/anchorboard/bridge/repositories/tasksrepobridge"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo"
	"github.com/jrazmi/anchorboard/core/repositories/reposrepo/stores/repossqlitestore"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo"
	"github.com/jrazmi/anchorboard/core/repositories/tasksrepo/stores/taskssqlitestore"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asUser stands in for bearer auth.
func asUser(userID string) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			return next(mid.WithUser(ctx, userID, ""), r)
		}
	}
}

type fixture struct {
	handler *web.WebHandler
	repo    reposrepo.Repo
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	db, err := sqlitedb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlitedb.Migrate(ctx, log, db)
	require.NoError(t, err)

	repos := reposrepo.NewRepository(log, repossqlitestore.NewStore(log, db))
	repo, err := repos.Ensure(ctx, "u1", reposrepo.GithubRepo{GithubID: 9, FullName: "acme/web", URL: "https://github.com/acme/web"})
	require.NoError(t, err)

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log), asUser("u1")))
	tasksrepobridge.AddHttpRoutes(h.Group("/api/v1"), tasksrepobridge.Config{
		Log:        log,
		Repository: tasksrepo.NewRepository(log, taskssqlitestore.NewStore(log, db)),
	})
	return fixture{handler: h, repo: repo}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

type taskRecord struct {
	Record tasksrepo.Task `json:"record"`
}

type taskRecords struct {
	Records []tasksrepo.TaskWithRepo `json:"records"`
}

func TestCreateListAndToggle(t *testing.T) {
	f := setup(t)
	base := "/api/v1/repositories/" + f.repo.ID + "/tasks"

	w := f.do(t, http.MethodPost, base, `{"title":"Handle nil","type":"BUG","context":{"file":"main.go","sha":"abc","lineStart":4,"lineEnd":6}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created taskRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, tasksrepo.TypeBug, created.Record.Type)
	assert.Equal(t, tasksrepo.PriorityMedium, created.Record.Priority)
	require.NotNil(t, created.Record.FilePath)
	assert.Equal(t, "main.go", *created.Record.FilePath)

	w = f.do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Record.ID)

	w = f.do(t, http.MethodPost, "/api/v1/tasks/"+created.Record.ID+"/star", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isStarred":true}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all taskRecords
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all.Records, 1)
	assert.Equal(t, "acme/web", all.Records[0].RepositoryFullName)
	assert.True(t, all.Records[0].IsStarred)
}

func TestStatusEndpoints(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/v1/repositories/"+f.repo.ID+"/tasks", `{"title":"x"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created taskRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	taskPath := "/api/v1/tasks/" + created.Record.ID

	w = f.do(t, http.MethodPut, taskPath+"/state", `{"status":"in_progress"}`)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = f.do(t, http.MethodPut, taskPath+"/status", `{"completed":false}`)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/tasks", "")
	var all taskRecords
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all.Records, 1)
	assert.Equal(t, tasksrepo.StatusOpen, all.Records[0].Status)

	w = f.do(t, http.MethodPut, taskPath+"/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, taskPath+"/state", `{"status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, taskPath, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, taskPath, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateErrors(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/api/v1/repositories/"+f.repo.ID+"/tasks", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/repositories/"+f.repo.ID+"/tasks", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/repositories/00000000-0000-0000-0000-000000000000/tasks", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
