package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a direct lookup for a record that does not exist.
var ErrNotFound = errors.New("not found")

// ErrBackendUnavailable indicates the AI service could not be reached
// (transport failure or timeout).
var ErrBackendUnavailable = errors.New("ai service unavailable")

// ValidationError indicates a missing or empty required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// BackendError indicates the AI service answered with a non-success status.
type BackendError struct {
	Status int
	Body   string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ai service error [%d]: %s", e.Status, e.Body)
}

// PersistenceError indicates a store read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
