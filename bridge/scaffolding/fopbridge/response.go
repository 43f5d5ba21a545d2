// Package fopbridge holds the response envelopes and list parameters shared
// by the HTTP bridges.
package fopbridge

import (
	"encoding/json"
	"net/http"
)

// RecordResponse wraps a single record as {"record": ...}.
type RecordResponse[T any] struct {
	Record T `json:"record"`

	status int
}

func NewRecordResponse[T any](record T) RecordResponse[T] {
	return RecordResponse[T]{Record: record, status: http.StatusOK}
}

// NewCreatedResponse answers 201 with the new record.
func NewCreatedResponse[T any](record T) RecordResponse[T] {
	return RecordResponse[T]{Record: record, status: http.StatusCreated}
}

func (r RecordResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

func (r RecordResponse[T]) HTTPStatus() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
