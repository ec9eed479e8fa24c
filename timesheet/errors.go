/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Validation errors  - missing employee/date, non-positive hours
  2. Conflict errors    - an add call mixing leave and work signals
  3. Not-found errors   - ledger/segment absent on update
  4. Persistence errors - backend I/O failures, propagated unchanged

USAGE:
  if timesheet.IsNotFound(err) { ... }

  var verr *timesheet.ValidationError
  if errors.As(err, &verr) { ... }
*/
package timesheet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the base of all input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced ledger or segment doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an add call mixes leave and work signals
	// in one request.
	ErrConflict = errors.New("conflicting entry signals")

	// ErrPersistence wraps backend I/O failures. The reconciliation engine
	// propagates these unchanged to its caller.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing ledger or segment.
type NotFoundError struct {
	Resource string // "timesheet" or "work segment"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a request that carries both leave and work signals.
type ConflictError struct {
	Kind    EntryKind
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting %s request: %s", e.Kind, e.Message)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// PersistenceError wraps a backend failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsClientError returns true if the error is due to invalid client input
// rather than a backend failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict)
}

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
