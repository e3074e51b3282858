// Package errs holds the error conditions the service layer reports to callers.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrCycle      = errors.New("tree cycle")
	ErrConflict   = errors.New("conflict")
)

// NotFoundError reports a lookup by id that matched no row.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity string, id fmt.Stringer) error {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConsistencyError reports a re-parent that would make a node its own ancestor.
type ConsistencyError struct {
	Entity   string
	ID       string
	ParentID string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s %s cannot be moved under %s: it is an ancestor of the target", e.Entity, e.ID, e.ParentID)
}

func (e *ConsistencyError) Unwrap() error { return ErrCycle }

// Conflict wraps ErrConflict with a message such as "category slug already exists".
func Conflict(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}
