package errs

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/jrazmi/anchorboard/core/repositories"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
)

// FromCore maps repository and upstream errors onto app error codes. The
// returned error names the caller as its source.
func FromCore(err error) *Error {
	code, msg := classify(err)

	pc, filename, line, _ := runtime.Caller(1)
	return &Error{
		Code:     code,
		Message:  msg,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

func classify(err error) (ErrCode, string) {
	var upErr *githubapi.UpstreamError
	switch {
	case errors.As(err, &upErr):
		return BadGateway, upErr.Error()
	case errors.Is(err, repositories.ErrUnauthorized):
		return Unauthenticated, "unauthorized"
	case errors.Is(err, repositories.ErrNotFound):
		return NotFound, err.Error()
	case errors.Is(err, repositories.ErrInvalidInput):
		return InvalidArgument, err.Error()
	case errors.Is(err, repositories.ErrDuplicate):
		return AlreadyExists, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return DeadlineExceeded, "request timed out"
	}
	// Persistence and unknown failures keep their detail in the log only.
	return InternalOnlyLog, err.Error()
}
