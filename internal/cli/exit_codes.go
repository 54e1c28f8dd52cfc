package cli

import (
	"github.com/canonic-tools/canonic/internal/cli/shared"
)

// Exit codes for the canonic CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates a compliant tree
	ExitSuccess = shared.ExitSuccess

	// ExitViolations indicates at least one violation or pipeline problem
	ExitViolations = shared.ExitViolations

	// ExitUnexpectedError indicates an I/O or internal failure
	ExitUnexpectedError = shared.ExitUnexpectedError

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = shared.ExitInvalidArguments
)

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}
