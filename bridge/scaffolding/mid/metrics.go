package mid

import (
	"context"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/metrics"
	"github.com/jrazmi/anchorboard/infrastructure/web"
)

// goroutineSample is how many requests pass between goroutine gauge reads.
const goroutineSample = 1000

// Metrics counts requests and failed responses. Upstream failures are also
// counted on their own.
func Metrics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			ctx = metrics.Set(ctx)
			resp := next(ctx, r)

			if metrics.AddRequests(ctx)%goroutineSample == 0 {
				metrics.AddGoroutines(ctx)
			}

			if isError(resp) == nil {
				return resp
			}
			metrics.AddErrors(ctx)
			if web.StatusCode(resp) == http.StatusBadGateway {
				metrics.AddUpstreamErrors(ctx)
			}
			return resp
		}
	}
}
