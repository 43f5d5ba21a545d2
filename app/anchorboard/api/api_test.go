package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrazmi/anchorboard/app/anchorboard/api"
	"github.com/jrazmi/anchorboard/app/anchorboard/config"
	"github.com/jrazmi/anchorboard/bridge/scaffolding/mid"
	"github.com/jrazmi/anchorboard/core/dashboard"
	"github.com/jrazmi/anchorboard/core/settings"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
	"github.com/jrazmi/anchorboard/infrastructure/sqlitedb"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (http.Handler, string) {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	db, err := sqlitedb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = sqlitedb.Migrate(ctx, log, db)
	require.NoError(t, err)

	repos := config.NewSQLiteRepositories(log, db)
	token, _, err := repos.Sessions.Create(ctx, "u1", "", time.Hour)
	require.NoError(t, err)

	store, err := settings.NewFileStore(log, t.TempDir())
	require.NoError(t, err)

	h := web.NewWebHandler(
		web.HandlerOptions{CORSOrigins: []string{"*"}},
		web.WithGlobalMiddleware(mid.Errors(log), mid.Panics()),
	)
	api.AddHandlers(h, config.Anchorboard{
		Build:        "test",
		Logger:       log,
		Driver:       config.DriverSQLite,
		Repositories: repos,
		Dashboard:    dashboard.NewService(log, repos.Tasks, repos.Repos),
		Settings:     store,
		GitHub:       githubapi.New(log, githubapi.WithBaseURL("http://127.0.0.1:0")),
		StatusCheck:  func(ctx context.Context) error { return sqlitedb.StatusCheck(ctx, db) },
	})
	return h, token
}

func TestRoutesRequireSession(t *testing.T) {
	h, token := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"tasks without token", http.MethodGet, "/api/v1/tasks", "", http.StatusUnauthorized},
		{"tasks with bad token", http.MethodGet, "/api/v1/tasks", "nope", http.StatusUnauthorized},
		{"tasks", http.MethodGet, "/api/v1/tasks", token, http.StatusOK},
		{"repositories", http.MethodGet, "/api/v1/repositories", token, http.StatusOK},
		{"stats", http.MethodGet, "/api/v1/dashboard/stats", token, http.StatusOK},
		{"settings", http.MethodGet, "/api/v1/settings", token, http.StatusOK},
		{"session", http.MethodGet, "/api/v1/session", token, http.StatusOK},
		{"preflight", http.MethodOptions, "/api/v1/tasks", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestPreflightHeaders(t *testing.T) {
	h, _ := setup(t)

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/repositories", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
