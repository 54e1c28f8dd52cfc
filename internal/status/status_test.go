// Package status_test tests pipeline stage detection, stage problems and next-step hints.
// Related: internal/status/status.go
// Tags: status, pipeline, stage, reindex
package status

import (
	"path/filepath"
	"testing"

	"github.com/canonic-tools/canonic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_EmptyTree(t *testing.T) {
	t.Parallel()

	st, err := Collect(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StageEmpty, st.Stage)
	assert.False(t, st.LedgerExists)
	assert.False(t, st.HasProblems())
	assert.Empty(t, st.Reindex)
	assert.Equal(t, []string{"Create episodes/episode-01.md with raw input"}, NextSteps(st))
}

func TestCollect_Counts(t *testing.T) {
	t.Parallel()

	root := testutil.CreatePipeline(t, t.TempDir())
	testutil.AddTriads(t, root)
	testutil.WriteTree(t, root, map[string]string{
		"episodes/notes.txt":  "ignored",
		"output/book.md":      "asset-0001\n",
		"output/METADATA.md":  "# Metadata\n",
		"prose/REINDEX.md":    "# Reindex\n",
		"prose/chapter-2.md":  "asset-0002\n",
		"prose/sub/nested.md": "not counted\n",
	})

	st, err := Collect(root)
	require.NoError(t, err)

	assert.Equal(t, 2, st.Episodes)
	assert.Equal(t, 2, st.Assets)
	assert.True(t, st.LedgerExists)
	assert.True(t, st.EpisodesImmutable)
	assert.Equal(t, 2, st.Prose)
	assert.Equal(t, 1, st.Output)
	assert.True(t, st.MetadataExists)
	assert.Equal(t, "prose", st.Reindex)
	assert.Equal(t, StageOutput, st.Stage)
	assert.Equal(t, []string{"Output exists despite active REINDEX in prose/"}, st.Problems)
	assert.Equal(t, []string{"Pipeline complete"}, NextSteps(st))
}

func TestCollect_DistinctLedgerIDs(t *testing.T) {
	t.Parallel()

	root := testutil.CreatePipeline(t, t.TempDir(), testutil.WithLedgerRows(
		testutil.LedgerRow("asset-0001", "Opening", "scene", "01"),
		testutil.LedgerRow("asset-0001", "Duplicate", "scene", "01"),
		"Superseded by asset-0009 in a later pass.",
	))

	st, err := Collect(root)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Assets)
}

func TestCurrentStage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		st   Status
		want string
	}{
		"empty":        {st: Status{}, want: StageEmpty},
		"episodes":     {st: Status{Episodes: 1}, want: StageEpisode},
		"assets":       {st: Status{Episodes: 1, Assets: 3}, want: StageAsset},
		"prose":        {st: Status{Assets: 3, Prose: 1}, want: StageProse},
		"output":       {st: Status{Prose: 1, Output: 2}, want: StageOutput},
		"output alone": {st: Status{Output: 1}, want: StageOutput},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, currentStage(&tt.st))
		})
	}
}

func TestProblems(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		st   Status
		want []string
	}{
		"healthy": {
			st:   Status{Episodes: 2, Assets: 2, LedgerExists: true, Prose: 1},
			want: []string{},
		},
		"prose without ledger": {
			st:   Status{Prose: 1},
			want: []string{"Prose exists but assets/LEDGER.md missing"},
		},
		"stalled at episodes": {
			st:   Status{Episodes: 3},
			want: []string{"Episodes exist but no assets extracted (pipeline stalled at Episode stage)"},
		},
		"output during reindex": {
			st:   Status{Episodes: 1, Assets: 1, LedgerExists: true, Output: 1, Reindex: "assets"},
			want: []string{"Output exists despite active REINDEX in assets/"},
		},
		"reindex without output": {
			st:   Status{Episodes: 1, Assets: 1, LedgerExists: true, Reindex: "episodes"},
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, problems(&tt.st))
		})
	}
}

func TestNextSteps(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		st   Status
		want string
	}{
		"no assets":   {st: Status{Episodes: 1}, want: "Extract assets from episodes"},
		"no prose":    {st: Status{Episodes: 1, Assets: 1}, want: "Compose prose referencing registered assets"},
		"no output":   {st: Status{Episodes: 1, Assets: 1, Prose: 1}, want: "Validate prose"},
		"no metadata": {st: Status{Episodes: 1, Assets: 1, Prose: 1, Output: 1}, want: "Pipeline complete; consider adding output/METADATA.md"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NextSteps(&tt.st)[0])
		})
	}
}

func TestActiveReindex_FirstStageWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "output", "REINDEX.md"), "x")
	testutil.WriteFile(t, filepath.Join(root, "assets", "REINDEX.md"), "x")

	dir, err := activeReindex(root)
	require.NoError(t, err)
	assert.Equal(t, "assets", dir)
}
