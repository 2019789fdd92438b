package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps an analytics error code to its HTTP status.
func StatusFor(code analytics.ErrorCode) int {
	switch code {
	case analytics.CodeInvalidParameter:
		return http.StatusBadRequest
	case analytics.CodeNotFound:
		return http.StatusNotFound
	case analytics.CodeDataIntegrity:
		return http.StatusUnprocessableEntity
	case analytics.CodeUnavailable:
		return http.StatusServiceUnavailable
	case analytics.CodeCanceled:
		return 499 // client closed request
	default:
		return http.StatusInternalServerError
	}
}

// From classifies err for the wire. Internal failures keep their cause but
// expose a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var api *Error
	if errors.As(err, &api) {
		return api
	}
	code := analytics.CodeOf(err)
	if code == "" {
		code = analytics.CodeInternal
	}
	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		return &Error{Status: status, Code: string(code), Err: errors.New("internal error")}
	}
	return &Error{Status: status, Code: string(code), Err: err}
}
