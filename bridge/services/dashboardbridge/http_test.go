package dashboardbridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/bridge/services/dashboardbridge"
	"github.com/jrazmi/anchorboard/core/dashboard"
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

func setup(t *testing.T) *web.WebHandler {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	db, err := sqlitedb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlitedb.Migrate(ctx, log, db)
	require.NoError(t, err)

	repos := reposrepo.NewRepository(log, repossqlitestore.NewStore(log, db))
	tasks := tasksrepo.NewRepository(log, taskssqlitestore.NewStore(log, db))

	repo, err := repos.Ensure(ctx, "u1", reposrepo.GithubRepo{GithubID: 42, FullName: "acme/api", URL: "https://github.com/acme/api"})
	require.NoError(t, err)

	for _, title := range []string{"first", "second", "third"} {
		_, err := tasks.Create(ctx, "u1", tasksrepo.NewTask{RepositoryID: repo.ID, Title: title})
		require.NoError(t, err)
	}
	done, err := tasks.Create(ctx, "u1", tasksrepo.NewTask{
		RepositoryID: repo.ID,
		Title:        "anchored",
		Anchor:       &tasksrepo.Anchor{File: "main.go", SHA: "abc"},
	})
	require.NoError(t, err)
	require.NoError(t, tasks.UpdateStatus(ctx, "u1", done.ID, true))

	stamp := func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			return next(mid.WithUser(ctx, "u1", ""), r)
		}
	}

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log), stamp))
	dashboardbridge.AddHttpRoutes(h.Group("/api/v1"), dashboardbridge.Config{
		Log:     log,
		Service: dashboard.NewService(log, tasks, repos),
	})
	return h
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestStats(t *testing.T) {
	h := setup(t)

	w := get(t, h, "/api/v1/dashboard/stats")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Record dashboard.Stats `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dashboard.Stats{
		TotalRepos:            1,
		OpenTasks:             3,
		CompletedTasks:        1,
		Anchors:               1,
		NewOpenSinceYesterday: 3,
	}, resp.Record)
}

func TestRepositoryCounts(t *testing.T) {
	h := setup(t)

	w := get(t, h, "/api/v1/dashboard/repository-counts")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Record map[string]dashboard.TaskCounts `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]dashboard.TaskCounts{
		"42": {Total: 4, Open: 3, Completed: 1},
	}, resp.Record)
}

func TestActivity(t *testing.T) {
	h := setup(t)

	w := get(t, h, "/api/v1/dashboard/activity?limit=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Records []tasksrepo.TaskSummary `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "acme/api", resp.Records[0].RepositoryFullName)

	w = get(t, h, "/api/v1/dashboard/activity?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, h, "/api/v1/dashboard/activity?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
