// Package apperror defines the error taxonomy shared by the dashboard's
// services, outbound clients and HTTP handlers.
//
// Every error that should reach a user carries a human-readable Message.
// Callers classify errors with errors.Is against the sentinels below; the
// HTTP layer maps them to status codes in handler.writeError.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// ErrMissingToken means the session has no access token. The action is
	// aborted locally and no request is sent.
	ErrMissingToken = errors.New("missing access token")

	// ErrUnauthorized means the backend rejected the access token (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream covers network failures, non-2xx responses and
	// {"success": false} envelopes from the PullQuest backend or GitHub.
	ErrUpstream = errors.New("upstream failure")

	ErrRateLimited = errors.New("rate limited")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// MissingToken is returned before any request is built when the session
// carries no access token.
func MissingToken() *AppError {
	return &AppError{
		Err:     ErrMissingToken,
		Message: "Authentication required",
	}
}

// Unauthorized is returned when the backend answers 401.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "Session expired. Please re-authenticate.",
	}
}

// Upstream wraps a failed outbound call. message is what the user sees; an
// empty message is allowed and lets the caller choose a fallback with
// MessageOr.
func Upstream(message string, cause error) *AppError {
	err := ErrUpstream
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrUpstream, cause)
	}
	return &AppError{
		Err:     err,
		Message: message,
	}
}

func RateLimited(message string) *AppError {
	return &AppError{
		Err:     ErrRateLimited,
		Message: message,
	}
}

// MessageOr returns the Message of the first AppError in err's chain, or
// fallback when there is none or it is empty.
func MessageOr(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
