// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Source loading errors. These are soft failures: the pipeline skips the
	// source and continues with whatever else is available.
	ErrSourceMissing    = errors.New("source file not found")
	ErrSchemaUnresolved = errors.New("no candidate columns matched")
	ErrEmptySource      = errors.New("source contains no data rows")

	// Reconciliation errors.
	ErrNoUsableSources = errors.New("no usable sources for date")
	ErrUnknownPolicy   = errors.New("unknown classification policy")

	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsSoftSourceError reports whether err is a per-source failure that the
// pipeline should log and skip rather than abort on.
func IsSoftSourceError(err error) bool {
	return errors.Is(err, ErrSourceMissing) ||
		errors.Is(err, ErrSchemaUnresolved) ||
		errors.Is(err, ErrEmptySource)
}
