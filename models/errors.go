package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an operation targets a task id that does not exist.
var ErrNotFound = errors.New("task not found")

// ValidationError carries every rule a payload broke.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Issues, ", ")
}

// NewValidationError builds a ValidationError from one or more issues.
func NewValidationError(issues ...string) *ValidationError {
	return &ValidationError{Issues: issues}
}

// StoreError wraps a failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
