package mid

import (
	"bytes"
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/core/repositories/usersessionsrepo"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth map[string]usersessionsrepo.UserSession

func (f fakeAuth) Authenticate(_ context.Context, token string) (usersessionsrepo.UserSession, error) {
	s, ok := f[token]
	if !ok {
		return usersessionsrepo.UserSession{}, repositories.ErrUnauthorized
	}
	return s, nil
}

func whoami(ctx context.Context, _ *http.Request) web.Encoder {
	userID, err := GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}
	return web.NewJSONResponse(map[string]string{"user": userID, "token": GetProviderToken(ctx)})
}

func TestAuthenticate(t *testing.T) {
	auth := fakeAuth{"good": {UserID: "u1", ProviderToken: "gho_1"}}
	h := Authenticate(auth)(whoami)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			resp := h(context.Background(), r)
			assert.Equal(t, tt.status, web.StatusCode(resp))
		})
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer good")
	data, _, err := h(context.Background(), r).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"u1","token":"gho_1"}`, string(data))
}

func TestErrorsHidesInternalDetail(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	failing := func(context.Context, *http.Request) web.Encoder {
		return errs.FromCore(fmt.Errorf("list tasks: %w: connection refused", repositories.ErrPersistence))
	}
	resp := Errors(log)(failing)(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, web.StatusCode(resp))
	data, _, err := resp.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "connection refused")
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), "source_err_file")
}

func TestErrorsKeepsClientErrors(t *testing.T) {
	log := logger.NewNop()

	missing := func(context.Context, *http.Request) web.Encoder {
		return errs.FromCore(repositories.ErrNotFound)
	}
	resp := Errors(log)(missing)(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, web.StatusCode(resp))

	var body map[string]string
	data, _, err := resp.Encode()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "not_found", body["code"])
}

func TestPanicsRecovers(t *testing.T) {
	boom := func(context.Context, *http.Request) web.Encoder {
		panic("boom")
	}
	resp := Errors(logger.NewNop())(Panics()(boom))(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, web.StatusCode(resp))
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	ok := func(context.Context, *http.Request) web.Encoder {
		return web.NewJSONResponseWithStatus(struct{}{}, http.StatusCreated)
	}
	Logger(log)(ok)(context.Background(), httptest.NewRequest(http.MethodPost, "/tasks?x=1", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var done map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &done))
	assert.Equal(t, "request completed", done["msg"])
	assert.Equal(t, float64(http.StatusCreated), done["statuscode"])
	assert.Equal(t, "/tasks?x=1", done["path"])
}

func TestMetricsCountsUpstreamFailures(t *testing.T) {
	counter := func(name string) int64 {
		return expvar.Get(name).(*expvar.Int).Value()
	}
	errsBefore, upBefore := counter("errors"), counter("upstream_errors")

	upstream := func(context.Context, *http.Request) web.Encoder {
		return errs.Newf(errs.BadGateway, "Failed to fetch tree: Not Found")
	}
	notFound := func(context.Context, *http.Request) web.Encoder {
		return errs.Newf(errs.NotFound, "task not found")
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	Metrics()(upstream)(context.Background(), r)
	Metrics()(notFound)(context.Background(), r)

	assert.Equal(t, errsBefore+2, counter("errors"))
	assert.Equal(t, upBefore+1, counter("upstream_errors"))
}

func TestErrorsLogsClientErrorsAsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewDefault(logger.WithOutput(&buf))

	missing := func(context.Context, *http.Request) web.Encoder {
		return errs.Newf(errs.NotFound, "task not found")
	}
	ctx := WithUser(context.Background(), "u1", "")
	Errors(log)(missing)(ctx, httptest.NewRequest(http.MethodGet, "/", nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "not_found", rec["code"])
	assert.Equal(t, "u1", rec["user_id"])
}
