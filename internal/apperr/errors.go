// Package apperr defines the error kinds surfaced by the user and
// advertisement services and how each kind is presented over HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kinds. Match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrHasDependents     = errors.New("has dependents")
	ErrEmptyPatch        = errors.New("empty patch")
	ErrInvalid           = errors.New("invalid input")
	ErrStorage           = errors.New("storage error")
)

// Error carries a kind, a caller-facing message and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return target == e.Kind }
func (e *Error) Unwrap() error        { return e.Cause }

func newf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }
func AlreadyExists(format string, args ...any) error {
	return newf(ErrAlreadyExists, format, args...)
}
func ReferenceNotFound(format string, args ...any) error {
	return newf(ErrReferenceNotFound, format, args...)
}
func HasDependents(format string, args ...any) error {
	return newf(ErrHasDependents, format, args...)
}
func EmptyPatch(format string, args ...any) error { return newf(ErrEmptyPatch, format, args...) }
func Invalid(format string, args ...any) error    { return newf(ErrInvalid, format, args...) }

// Storage wraps an unexpected persistence failure. Already classified errors
// pass through unchanged so a kind is never downgraded.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrStorage, Message: "internal server error", Cause: err}
}

// Status maps an error to its HTTP status, a stable code and the message that
// is safe to show the caller.
func Status(err error) (status int, code string, message string) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "storage_error", "internal server error"
	}
	switch e.Kind {
	case ErrNotFound:
		return http.StatusNotFound, "not_found", e.Message
	case ErrAlreadyExists:
		return http.StatusConflict, "already_exists", e.Message
	case ErrReferenceNotFound:
		return http.StatusUnprocessableEntity, "reference_not_found", e.Message
	case ErrHasDependents:
		return http.StatusConflict, "has_dependents", e.Message
	case ErrEmptyPatch:
		return http.StatusBadRequest, "empty_patch", e.Message
	case ErrInvalid:
		return http.StatusBadRequest, "invalid", e.Message
	}
	return http.StatusInternalServerError, "storage_error", "internal server error"
}
