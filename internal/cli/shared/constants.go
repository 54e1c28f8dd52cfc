// Package shared provides constants and types used across CLI commands.
// This package has no dependencies on other CLI packages to avoid circular imports.
package shared

import (
	"errors"
	"fmt"
)

// Command group IDs for organizing help output
const (
	GroupChecks      = "checks"
	GroupInspection  = "inspection"
	GroupInformation = "information"
)

// Exit codes for CLI commands
const (
	ExitSuccess          = 0
	ExitViolations       = 1
	ExitUnexpectedError  = 2
	ExitInvalidArguments = 3
)

// exitError is a custom error type that carries an exit code and, optionally,
// the error that caused it.
type exitError struct {
	code  int
	cause error
}

func (e *exitError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.cause
}

// NewExitError creates a new exit error with the given code. It carries no
// message, so callers have already reported the outcome.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, cause: err}
}

// InvalidArguments marks err as a usage error.
func InvalidArguments(err error) error {
	return WrapExitError(ExitInvalidArguments, err)
}

// ExitCode returns the exit code from an error. Errors without a code are
// unexpected failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitUnexpectedError
}

// IsSilent reports whether err is an exit code with nothing left to print.
func IsSilent(err error) bool {
	var e *exitError
	return errors.As(err, &e) && e.cause == nil
}
