package mid

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/infrastructure/web"
	"github.com/jrazmi/anchorboard/sdk/logger"
)

// Errors logs every error response and replaces anything that is not an
// *errs.Error, or is marked InternalOnlyLog, with a generic 500. Client
// errors log at warn level.
func Errors(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err := isError(resp)
			if err == nil {
				return resp
			}

			var appErr *errs.Error
			if !errors.As(err, &appErr) {
				appErr = errs.Newf(errs.Internal, "Internal Server Error")
			}

			status := appErr.HTTPStatus()
			level := slog.LevelError
			if status < http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			attrs := []any{
				"err", err,
				"code", appErr.Code.String(),
				"status", status,
				"source_err_file", path.Base(appErr.FileName),
				"source_err_func", path.Base(appErr.FuncName),
			}
			if userID, uerr := GetUserID(ctx); uerr == nil {
				attrs = append(attrs, "user_id", userID)
			}
			log.Log(ctx, level, "handled error during request", attrs...)

			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.Newf(errs.Internal, "Internal Server Error")
			}
			return appErr
		}
	}
}
