package fopbridge

import (
	"encoding/json"
	"net/http"

	"github.com/jrazmi/anchorboard/bridge/scaffolding/errs"
	"github.com/jrazmi/anchorboard/infrastructure/web"
)

// MaxLimit caps any client supplied list limit.
const MaxLimit = 100

// RecordsResponse wraps a list of records. Records is never null.
type RecordsResponse[T any] struct {
	Records []T `json:"records"`
}

func NewRecordsResponse[T any](records []T) RecordsResponse[T] {
	if records == nil {
		records = []T{}
	}
	return RecordsResponse[T]{Records: records}
}

func (r RecordsResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// ParseLimit reads the limit query parameter. Absent means 0, which lets the
// core apply its own default.
func ParseLimit(r *http.Request) (int, *errs.Error) {
	limit, err := web.QueryInt(r, "limit", 0)
	if err != nil {
		return 0, errs.New(errs.InvalidArgument, err)
	}
	if limit < 0 {
		return 0, errs.Newf(errs.InvalidArgument, "limit must not be negative")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, nil
}
