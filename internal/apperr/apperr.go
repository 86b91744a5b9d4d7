// Package apperr defines the user-visible error taxonomy of the API and the
// translation of lower-layer errors into it.
package apperr

import (
	"errors"
	"net/http"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

// Kind classifies an error
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindNotFound
	KindConflict
	KindRateLimited
)

var kindCodes = map[Kind]struct {
	code   string
	status int
}{
	KindInternal:        {"INTERNAL_SERVER_ERROR", http.StatusInternalServerError},
	KindUnauthenticated: {"UNAUTHENTICATED", http.StatusUnauthorized},
	KindForbidden:       {"FORBIDDEN", http.StatusForbidden},
	KindValidation:      {"BAD_USER_INPUT", http.StatusBadRequest},
	KindNotFound:        {"NOT_FOUND", http.StatusNotFound},
	KindConflict:        {"CONFLICT", http.StatusConflict},
	KindRateLimited:     {"RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests},
}

// Code returns the machine-readable extensions.code for k
func (k Kind) Code() string { return kindCodes[k].code }

// StatusCode returns the HTTP status equivalent of k
func (k Kind) StatusCode() int { return kindCodes[k].status }

// Error is a classified, user-visible error
type Error struct {
	Kind    Kind
	Message string
	Err     error
	detail  string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Extensions implements graphql-go's gqlerrors.ExtendedError
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":       e.Kind.Code(),
		"statusCode": e.Kind.StatusCode(),
	}
	if e.detail != "" {
		ext["detail"] = e.detail
	}
	return ext
}

func newError(kind Kind, msg, fallback string) *Error {
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: kind, Message: msg}
}

func Unauthenticated(msg string) *Error {
	return newError(KindUnauthenticated, msg, "Authentication required")
}

func Forbidden(msg string) *Error {
	return newError(KindForbidden, msg, "Access denied")
}

func Validation(msg string) *Error {
	return newError(KindValidation, msg, "Validation failed")
}

func NotFound(msg string) *Error {
	return newError(KindNotFound, msg, "Resource not found")
}

func Conflict(msg string) *Error {
	return newError(KindConflict, msg, "Resource conflict")
}

func RateLimited(msg string) *Error {
	return newError(KindRateLimited, msg, "Rate limit exceeded")
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// Is reports whether err is an *Error of kind
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Translate maps any error to an *Error. Typed errors pass through, store
// and query sentinels map to their class, and everything else becomes an
// opaque internal error whose detail is attached only outside production.
func Translate(err error, production bool) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var dup *store.DuplicateError
	switch {
	case errors.As(err, &dup):
		return &Error{Kind: KindConflict, Message: dup.Error(), Err: err}
	case errors.Is(err, store.ErrDuplicate):
		return &Error{Kind: KindConflict, Message: "Resource already exists", Err: err}
	case errors.Is(err, store.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: "Resource not found", Err: err}
	case errors.Is(err, query.ErrInvalidID), errors.Is(err, query.ErrInvalidValue):
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	internal := Internal(err)
	if !production {
		internal.detail = err.Error()
	}
	return internal
}
