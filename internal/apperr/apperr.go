// Package apperr defines the error kinds shared by the console's core packages.
//
// Each domain package declares its own sentinels wrapping one of these kinds,
// so callers can match either the specific error or the kind with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed operator input. Reported before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an operation on an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransient marks a failed or timed-out collaborator call.
	// Local state is left unchanged; retrying is the caller's decision.
	ErrTransient = errors.New("temporarily unavailable")
)

// Transient wraps err as a transient failure unless it already carries a kind.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	if HasKind(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}

// HasKind reports whether err is classified as one of the three kinds.
func HasKind(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTransient)
}
