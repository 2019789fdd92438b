// Package analytics holds the error taxonomy shared by the reporting engine,
// its ledger stores and the HTTP adapter.
package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a failed report invocation.
type ErrorCode string

const (
	// CodeInvalidParameter: malformed or out-of-domain input. Never retried.
	CodeInvalidParameter ErrorCode = "invalid_parameter"
	// CodeDataIntegrity: a referenced ledger entity is missing. Not retried.
	CodeDataIntegrity ErrorCode = "data_integrity"
	// CodeUnavailable: transient store/transport failure; callers may retry with backoff.
	CodeUnavailable ErrorCode = "unavailable"
	// CodeCanceled: the caller's context was canceled while waiting on the store.
	CodeCanceled ErrorCode = "canceled"
	CodeNotFound ErrorCode = "not_found"
	CodeInternal ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with code. Errors that already carry a code pass through.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func InvalidParameter(op, format string, args ...any) error {
	return NewError(CodeInvalidParameter, op, fmt.Sprintf(format, args...), nil)
}

func DataIntegrity(op, format string, args ...any) error {
	return NewError(CodeDataIntegrity, op, fmt.Sprintf(format, args...), nil)
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func CodeOf(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// Retryable reports whether the caller may retry the same invocation.
func Retryable(err error) bool {
	return IsCode(err, CodeUnavailable)
}
