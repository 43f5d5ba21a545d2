package web

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the framework's own failure payload, used when no
// application error type is available.
type ErrorResponse struct {
	Error  string `json:"error"`
	status int
}

func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg, status: http.StatusInternalServerError}
}

// NewErrorWithStatus builds an ErrorResponse with an explicit status code.
func NewErrorWithStatus(msg string, status int) ErrorResponse {
	return ErrorResponse{Error: msg, status: status}
}

func (e ErrorResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(e)
	return data, "application/json", err
}

func (e ErrorResponse) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}
