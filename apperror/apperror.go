// Package apperror defines the operational error type every handler reports
// through. The error normalizer middleware turns these (and a handful of
// recognized library errors) into the client-facing envelope.
package apperror

import "net/http"

// Error is an operational error: an expected failure with a client-safe
// message and an HTTP status code.
type Error struct {
	Message string
	Code    int
}

func New(message string, code int) *Error {
	return &Error{Message: message, Code: code}
}

func (e *Error) Error() string {
	return e.Message
}

// Status is the envelope status string: "fail" for 4xx, "error" otherwise.
func (e *Error) Status() string {
	if e.Code >= 400 && e.Code < 500 {
		return "fail"
	}
	return "error"
}

func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

func BadRequest(message string) *Error {
	return New(message, http.StatusBadRequest)
}

func Internal(message string) *Error {
	return New(message, http.StatusInternalServerError)
}
