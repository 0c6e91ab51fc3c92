// Package apperrors defines the error taxonomy shared by the registries,
// the participation ledger, and the storage gateway.
//
// Callers distinguish failure classes with errors.Is against the sentinel
// values; the message carried by each error is suitable for direct display.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four failure classes.
var (
	// ErrValidation marks malformed input: bad identifier format, bad date,
	// out-of-range year, unknown performance value, or empty required field.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity or link that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate identifier on create.
	ErrConflict = errors.New("already exists")

	// ErrStorage marks an engine or connection failure surfaced by the
	// storage gateway.
	ErrStorage = errors.New("storage failure")
)

// kindError pairs a display message with its sentinel class.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validationf returns a validation error with a formatted display message.
func Validationf(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a not-found error with a formatted display message.
func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns a conflict error with a formatted display message.
func Conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Storagef returns a storage error with a formatted display message.
// The underlying driver error is logged at the gateway, not carried here,
// so the message stays safe to print verbatim.
func Storagef(format string, args ...any) error {
	return &kindError{kind: ErrStorage, msg: fmt.Sprintf(format, args...)}
}
