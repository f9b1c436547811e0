// Package apperr defines the API error taxonomy. Every error carries the
// HTTP status and the field→message body the client receives.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for logging and tests.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error is an API error.
type Error struct {
	Kind   Kind
	Status int
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Fields)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation wraps a validator's error map.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Fields: fields}
}

// NotFound reports a missing resource under the given reason key.
func NotFound(key, msg string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Fields: map[string]string{key: msg}}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Fields: map[string]string{"unauthorized": msg}}
}

// Forbidden reports an ownership mismatch. Clients expect 401 here.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusUnauthorized, Fields: map[string]string{"notauthorized": msg}}
}

// Conflict reports a uniqueness violation (email or handle).
func Conflict(field, msg string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Fields: map[string]string{field: msg}}
}

// BadRequest reports a client error that is not a validator failure.
func BadRequest(field, msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Fields: map[string]string{field: msg}}
}

// Unavailable reports a feature whose backing service is not configured.
func Unavailable(field, msg string) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusServiceUnavailable, Fields: map[string]string{field: msg}}
}

// Internal wraps an unexpected failure. The cause is logged, never sent.
func Internal(err error) *Error {
	return &Error{
		Kind:   KindInternal,
		Status: http.StatusInternalServerError,
		Fields: map[string]string{"error": "Internal server error"},
		Err:    err,
	}
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
