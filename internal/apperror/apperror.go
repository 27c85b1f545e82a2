// Package apperror defines the application's error taxonomy. Services return
// these instead of HTTP status codes; the handler layer translates them.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. AppError wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrAuthRequired = errors.New("authentication required")
	ErrRemoteRead   = errors.New("remote read failed")
	ErrRemoteWrite  = errors.New("remote write failed")
)

// AppError carries a sentinel cause plus human-readable detail.
// Fields is populated only for validation errors and maps each offending
// field name to its message, so callers can surface every problem at once.
type AppError struct {
	Err     error
	Message string
	Fields  map[string]string
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

// ValidationFailed reports one invalid field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// ValidationFields reports a set of invalid fields collected in one pass.
func ValidationFields(fields map[string]string) *AppError {
	msg := "validation failed"
	for _, m := range fields {
		msg = m // single-field case keeps its specific message
	}
	if len(fields) > 1 {
		msg = fmt.Sprintf("validation failed for %d fields", len(fields))
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden indicates the caller lacks permission. Handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// AuthRequired indicates an operation needing a signed-in user was invoked
// without one. Handlers map this to 401.
func AuthRequired(message string) *AppError {
	return &AppError{
		Err:     ErrAuthRequired,
		Message: message,
	}
}

// RemoteRead wraps a store-level read failure. The wrapped cause stays
// reachable through the chain for logging.
func RemoteRead(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrRemoteRead, op, cause),
		Message: fmt.Sprintf("reading from the snippet store failed during %s", op),
	}
}

// RemoteWrite wraps a store-level write failure.
func RemoteWrite(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %v", ErrRemoteWrite, op, cause),
		Message: fmt.Sprintf("writing to the snippet store failed during %s", op),
	}
}
