// Package cli_test tests the status command output and its exit code on pipeline problems.
// Related: internal/cli/status.go, internal/status/status.go
// Tags: cli, status, pipeline, reindex
package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/canonic-tools/canonic/internal/report"
	"github.com/canonic-tools/canonic/internal/status"
	"github.com/canonic-tools/canonic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatusCmdRegistration(t *testing.T) {
	cmd := findCommand("status")
	require.NotNil(t, cmd, "status command should be registered")
	assert.Contains(t, cmd.Aliases, "st", "status command should have 'st' alias")

	f := cmd.Flags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, "text", f.DefValue)
}

func TestRunStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files        map[string]string
		wantCode     int
		wantContains []string
	}{
		"empty tree": {
			wantCode:     ExitSuccess,
			wantContains: []string{"Current stage: Empty", "REINDEX: none", "Create episodes/episode-01.md"},
		},
		"episodes without assets": {
			files:        map[string]string{"episodes/episode-01.md": "# one\n"},
			wantCode:     ExitViolations,
			wantContains: []string{"Current stage: Episode", "Problems:", "pipeline stalled at Episode stage"},
		},
		"output behind reindex gate": {
			files: map[string]string{
				"episodes/episode-01.md": "# one\n",
				"assets/LEDGER.md":       testutil.LedgerRow("asset-0001", "A", "scene", "01") + "\n",
				"prose/draft.md":         "asset-0001\n",
				"prose/REINDEX.md":       "pending\n",
				"output/book.md":         "done\n",
			},
			wantCode:     ExitViolations,
			wantContains: []string{"Current stage: Output", "REINDEX: active in prose/", "Output exists despite active REINDEX in prose/", "METADATA.md missing"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			testutil.WriteTree(t, root, tt.files)

			var out bytes.Buffer
			err := runStatus(root, report.FormatText, &out)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			for _, want := range tt.wantContains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestRunStatus_MachineFormats(t *testing.T) {
	t.Parallel()

	root := testutil.CreatePipeline(t, t.TempDir())

	var jsonOut bytes.Buffer
	require.NoError(t, runStatus(root, report.FormatJSON, &jsonOut))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	assert.Equal(t, status.StageProse, decoded["current_stage"])
	assert.EqualValues(t, 2, decoded["episodes"])
	assert.EqualValues(t, 2, decoded["assets"])
	assert.Equal(t, true, decoded["episodes_immutable"])
	assert.NotEmpty(t, decoded["next_steps"])

	var yamlOut bytes.Buffer
	require.NoError(t, runStatus(root, report.FormatYAML, &yamlOut))
	var yamlDecoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &yamlDecoded))
	assert.Equal(t, status.StageProse, yamlDecoded["current_stage"])
	assert.Contains(t, yamlDecoded, "next_steps")
}

func TestStatusCommand_RejectsSummaryFormat(t *testing.T) {
	// No t.Parallel() - executes the shared rootCmd
	root := t.TempDir()
	_, _, err := executeCommand(t, "status", "--root", root, "--format", "summary")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, _, err = executeCommand(t, "status", "--root", filepath.Join(root, "missing"))
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestStatusCommand_PipelineDir(t *testing.T) {
	// No t.Parallel() - executes the shared rootCmd
	tests := map[string]struct {
		config string
		args   []string
	}{
		"from local config": {config: `{"pipeline_dir": "book"}`},
		"from flag":         {args: []string{"--pipeline-dir", "book/"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			testutil.CreatePipeline(t, filepath.Join(root, "book"))
			if tt.config != "" {
				testutil.WriteFile(t, filepath.Join(root, ".canonic", "config.json"), tt.config)
			}

			args := append([]string{"status", "--root", root}, tt.args...)
			stdout, _, err := executeCommand(t, args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Current stage: Prose")
			assert.NotContains(t, stdout, "Current stage: Empty")
		})
	}
}
