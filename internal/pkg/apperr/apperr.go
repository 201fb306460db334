// Package apperr holds the error taxonomy shared by every domain package.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence error")
)

// ValidationError is a malformed or missing request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string { return "VALIDATION_ERROR" }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError names the missing resource. Message overrides the default text.
type NotFoundError struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string { return "NOT_FOUND" }

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NotFoundf(resource, id, format string, args ...any) error {
	return &NotFoundError{Resource: resource, ID: id, Message: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Unwrap() error { return ErrConflict }
func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }
func (e *ConflictError) Code() string { return "CONFLICT" }

func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// UnauthorizedError is a failed login or a missing identity.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }
func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }
func (e *UnauthorizedError) HTTPStatus() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Code() string { return "UNAUTHORIZED" }

func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

// PersistenceError wraps an unexpected data-store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
func (e *PersistenceError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *PersistenceError) Code() string { return "INTERNAL_ERROR" }

// Persistence wraps err unless it is nil or already classified.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

var roots = []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnauthorized, ErrPersistence}

// Register adds a domain sentinel so Persistence passes it through untouched.
// Call it from package init only.
func Register(sentinel error) {
	roots = append(roots, sentinel)
}

func IsClassified(err error) bool {
	for _, root := range roots {
		if errors.Is(err, root) {
			return true
		}
	}
	return false
}
