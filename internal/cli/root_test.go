// Package cli_test tests root command wiring: groups, persistent flags and exit code mapping.
// Related: internal/cli/root.go, internal/cli/exit_codes.go
// Tags: cli, root, flags, exit-codes
package cli

import (
	"errors"
	"testing"

	"github.com/canonic-tools/canonic/internal/cli/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPersistentFlags(t *testing.T) {
	tests := map[string]struct {
		shorthand string
		defValue  string
	}{
		"root":       {shorthand: "r", defValue: "."},
		"config":     {shorthand: "c", defValue: ""},
		"log-level":  {defValue: ""},
		"log-format": {defValue: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}
}

func TestRootCommandGroups(t *testing.T) {
	groups := map[string]string{
		"validate":         shared.GroupChecks,
		"status":           shared.GroupInspection,
		"trace <asset-id>": shared.GroupInspection,
		"doctor":           shared.GroupInformation,
		"config":           shared.GroupInformation,
		"version":          shared.GroupInformation,
	}
	for use, group := range groups {
		cmd := findCommand(use)
		require.NotNil(t, cmd, use)
		assert.Equal(t, group, cmd.GroupID, use)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitViolations, ExitCode(shared.NewExitError(ExitViolations)))
	assert.Equal(t, ExitInvalidArguments, ExitCode(shared.InvalidArguments(errors.New("bad"))))
	assert.Equal(t, ExitUnexpectedError, ExitCode(errors.New("boom")))
}

func TestUnknownLogLevelIsInvalidArgument(t *testing.T) {
	// No t.Parallel() - executes the shared rootCmd
	root := compliantTree(t)
	_, _, err := executeCommand(t, "validate", "--root", root, "--log-level", "loud")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}
