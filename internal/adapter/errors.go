package adapter

import (
	"errors"
	"fmt"
)

// Code classifies an adapter failure.
type Code string

const (
	// CodeInvalidQuery means the caller supplied insufficient or malformed
	// input. Never retried.
	CodeInvalidQuery Code = "INVALID_QUERY"

	// CodeNotFound means entity resolution or lookup failed. Not retried;
	// the caller should prompt for disambiguation.
	CodeNotFound Code = "NOT_FOUND"

	// CodeAPIError means an upstream provider failure, timeout, or
	// unexpected payload shape. Safe to retry with backoff, capped.
	CodeAPIError Code = "API_ERROR"

	// CodeUnavailable means the adapter is not configured (e.g. missing
	// credential). Static; checked before any network call.
	CodeUnavailable Code = "UNAVAILABLE"
)

// Error is the only error type an adapter lets out. Raw transport errors
// from provider clients are wrapped, with the underlying message preserved
// for diagnostics.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InvalidQuery builds an INVALID_QUERY error.
func InvalidQuery(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidQuery, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a NOT_FOUND error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// APIError wraps a provider failure, keeping its message.
func APIError(err error) *Error {
	return &Error{Code: CodeAPIError, Message: err.Error()}
}

// Unavailable builds an UNAVAILABLE error.
func Unavailable(format string, args ...interface{}) *Error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts an *Error from err, wrapping anything else as API_ERROR
// so no raw provider error crosses the adapter boundary.
func AsError(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return APIError(err)
}

// IsCode reports whether err is an adapter Error with the given code.
func IsCode(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
