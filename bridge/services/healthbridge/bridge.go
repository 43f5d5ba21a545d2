package healthbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

const checkTimeout = 2 * time.Second

type bridge struct {
	log    *logger.Logger
	build  string
	driver string
	check  StatusCheck
}

func newBridge(cfg Config) *bridge {
	return &bridge{
		log:    cfg.Log,
		build:  cfg.Build,
		driver: cfg.Driver,
		check:  cfg.StatusCheck,
	}
}

// Status is the health payload. A failing database answers 503.
type Status struct {
	Status   string `json:"status"`
	Build    string `json:"build,omitempty"`
	Database string `json:"database"`
	Driver   string `json:"driver,omitempty"`

	code int
}

func (s Status) Encode() ([]byte, string, error) {
	data, err := json.Marshal(s)
	return data, "application/json", err
}

func (s Status) HTTPStatus() int {
	return s.code
}

func (b *bridge) httpHealth(ctx context.Context, r *http.Request) web.Encoder {
	st := Status{
		Status:   "ok",
		Build:    b.build,
		Database: "ok",
		Driver:   b.driver,
		code:     http.StatusOK,
	}
	if b.check == nil {
		st.Database = "unconfigured"
		return st
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := b.check(ctx); err != nil {
		b.log.WarnContext(ctx, "health check failed", "driver", b.driver, "error", err)
		st.Status = "degraded"
		st.Database = "unavailable"
		st.code = http.StatusServiceUnavailable
	}
	return st
}
