// Package cli_test tests the trace command for single assets and orphaned asset listings.
// Related: internal/cli/trace.go, internal/trace/trace.go
// Tags: cli, trace, assets, orphaned
package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/canonic-tools/canonic/internal/report"
	"github.com/canonic-tools/canonic/internal/testutil"
	"github.com/canonic-tools/canonic/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCmdArgs(t *testing.T) {
	cmd := findCommand("trace <asset-id>")
	require.NotNil(t, cmd, "trace command should be registered")

	tests := map[string]struct {
		args     []string
		orphaned bool
		wantErr  bool
	}{
		"valid id":            {args: []string{"asset-0001"}},
		"no id":               {args: nil, wantErr: true},
		"malformed id":        {args: []string{"asset-12"}, wantErr: true},
		"two ids":             {args: []string{"asset-0001", "asset-0002"}, wantErr: true},
		"orphaned without id": {orphaned: true},
		"orphaned with id":    {args: []string{"asset-0001"}, orphaned: true, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resetFlags(cmd)
			if tt.orphaned {
				require.NoError(t, cmd.Flags().Set("orphaned", "true"))
			}
			err := cmd.Args(cmd, tt.args)
			if tt.wantErr {
				assert.Equal(t, ExitInvalidArguments, ExitCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
	resetFlags(cmd)
}

func TestRunTrace(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts         []testutil.PipelineOption
		output       map[string]string
		id           string
		wantCode     int
		wantContains []string
	}{
		"sourced asset": {
			id:           "asset-0002",
			output:       map[string]string{"output/book.md": "Final: asset-0002\n"},
			wantCode:     ExitSuccess,
			wantContains: []string{"Asset: asset-0002", "Name: Turn", "[✓] 01  episodes/episode-01.md", "Prose references: 1", "prose/draft.md:7", "Output references: 1", "Status: sourced"},
		},
		"missing source episode": {
			id:           "asset-0002",
			opts:         []testutil.PipelineOption{testutil.WithEpisodes("episode-01.md")},
			wantCode:     ExitViolations,
			wantContains: []string{"[✗] 02  (missing)", "Status: unsourced"},
		},
		"unknown asset": {
			id:       "asset-0042",
			wantCode: ExitViolations,
		},
		"no ledger": {
			id:       "asset-0001",
			opts:     []testutil.PipelineOption{testutil.WithoutLedger()},
			wantCode: ExitViolations,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := testutil.CreatePipeline(t, t.TempDir(), tt.opts...)
			testutil.WriteTree(t, root, tt.output)

			var out bytes.Buffer
			err := runTrace(trace.NewTracer(root), tt.id, report.FormatText, &out)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			for _, want := range tt.wantContains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestRunTrace_JSON(t *testing.T) {
	t.Parallel()

	root := testutil.CreatePipeline(t, t.TempDir())

	var out bytes.Buffer
	require.NoError(t, runTrace(trace.NewTracer(root), "asset-0001", report.FormatJSON, &out))

	var decoded trace.AssetTrace
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "asset-0001", decoded.Asset.ID)
	require.Len(t, decoded.Episodes, 1)
	assert.True(t, decoded.Episodes[0].Exists)
	require.Len(t, decoded.Prose, 1)
	assert.Equal(t, 4, decoded.Prose[0].Line)
}

func TestRunOrphaned(t *testing.T) {
	t.Parallel()

	t.Run("lists unreferenced assets", func(t *testing.T) {
		t.Parallel()
		root := testutil.CreatePipeline(t, t.TempDir(), testutil.WithProse("## Intro\nOnly asset-0001 here.\n## Body\n"))

		var out bytes.Buffer
		require.NoError(t, runOrphaned(trace.NewTracer(root), report.FormatText, &out))
		assert.Contains(t, out.String(), "Orphaned assets: 1")
		assert.Contains(t, out.String(), "asset-0002")
		assert.NotContains(t, out.String(), "asset-0001")
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		root := testutil.CreatePipeline(t, t.TempDir())

		var out bytes.Buffer
		require.NoError(t, runOrphaned(trace.NewTracer(root), report.FormatText, &out))
		assert.Equal(t, "No orphaned assets.\n", out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		root := testutil.CreatePipeline(t, t.TempDir(), testutil.WithProse("no references\n"))

		var out bytes.Buffer
		require.NoError(t, runOrphaned(trace.NewTracer(root), report.FormatYAML, &out))
		assert.Contains(t, out.String(), "orphaned:")
		assert.Contains(t, out.String(), "id: asset-0001")
	})

	t.Run("no ledger", func(t *testing.T) {
		t.Parallel()
		root := testutil.CreatePipeline(t, t.TempDir(), testutil.WithoutLedger())
		err := runOrphaned(trace.NewTracer(root), report.FormatText, &bytes.Buffer{})
		assert.Equal(t, ExitViolations, ExitCode(err))
		assert.ErrorIs(t, err, trace.ErrNoLedger)
	})
}

func TestTraceCommand_EndToEnd(t *testing.T) {
	// No t.Parallel() - executes the shared rootCmd
	root := testutil.CreatePipeline(t, t.TempDir())

	stdout, _, err := executeCommand(t, "trace", "asset-0001", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Asset: asset-0001")

	_, _, err = executeCommand(t, "trace", "--orphaned", "--root", root, "--format", "json")
	require.NoError(t, err)

	_, _, err = executeCommand(t, "trace", "bogus", "--root", root)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, _, err = executeCommand(t, "trace", "asset-0001", "--root", filepath.Join(root, "missing"))
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestTraceCommand_PipelineDir(t *testing.T) {
	// No t.Parallel() - executes the shared rootCmd
	tests := map[string]struct {
		config string
		args   []string
	}{
		"from local config": {config: `{"pipeline_dir": "book"}`},
		"from flag":         {args: []string{"--pipeline-dir", "book"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			testutil.CreatePipeline(t, filepath.Join(root, "book"))
			if tt.config != "" {
				testutil.WriteFile(t, filepath.Join(root, ".canonic", "config.json"), tt.config)
			}

			stdout, _, err := executeCommand(t, append([]string{"trace", "asset-0001", "--root", root}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Asset: asset-0001")
			assert.Contains(t, stdout, "prose/draft.md:4")

			_, _, err = executeCommand(t, append([]string{"trace", "--orphaned", "--root", root}, tt.args...)...)
			require.NoError(t, err)
		})
	}
}
