// Package integration_test tests full validation runs rendered through every report format.
// Related: internal/validation/pipeline.go, internal/report/report.go
// Tags: integration, validation, report, json, yaml, ordering

package integration

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/canonic-tools/canonic/internal/report"
	"github.com/canonic-tools/canonic/internal/testutil"
	"github.com/canonic-tools/canonic/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// brokenTree builds a tree that trips every pipeline check once.
func brokenTree(t *testing.T) string {
	t.Helper()
	root := testutil.CreatePipeline(t, t.TempDir(),
		testutil.WithLedgerRows(
			testutil.LedgerRow("asset-0001", "Opening", "scene", "01"),
			testutil.LedgerRow("asset-0003", "Skipped", "scene", "03"),
		),
		testutil.WithEpisodes("episode-01.md", "episode-1.md"),
		testutil.WithProse("# Draft\n\n## Body\nasset-0007\n\n## Intro\nasset-0001\n"),
	)
	testutil.AddTriads(t, root)
	return root
}

func TestValidate_CheckOrder(t *testing.T) {
	t.Parallel()

	violations, err := validation.Validate(brokenTree(t))
	require.NoError(t, err)

	got := make([]string, 0, len(violations))
	for _, v := range violations {
		got = append(got, v.String())
	}
	assert.Equal(t, []string{
		"assets/LEDGER.md:6: Asset ID asset-0003 breaks sequential order (expected: asset-0002).",
		"episodes/episode-1.md: Episode filename 'episode-1.md' has invalid format (expected: episode-NN.md with 2 digits).",
		"prose/draft.md:4: Prose references asset-0007 which is not registered in the asset ledger.",
		"assets/LEDGER.md:6: Asset asset-0003 references episode 03 but no such episode file exists.",
		"prose/draft.md:3: Section 'Body' appears out of order relative to the structure outline.",
	}, got)
}

func TestValidate_ReportFormats(t *testing.T) {
	t.Parallel()

	root := brokenTree(t)
	violations, err := validation.NewRunner(validation.Default(validation.Options{})...).Run(root)
	require.NoError(t, err)
	require.Len(t, violations, 5)

	var js bytes.Buffer
	require.NoError(t, report.Render(&js, violations, report.Options{Format: report.FormatJSON}))
	var fromJSON report.Report
	require.NoError(t, json.Unmarshal(js.Bytes(), &fromJSON))
	assert.Equal(t, report.StatusInvalid, fromJSON.Status)
	assert.Equal(t, 5, fromJSON.ViolationCount)
	assert.Equal(t, violations, fromJSON.Violations)

	var ym bytes.Buffer
	require.NoError(t, report.Render(&ym, violations, report.Options{Format: report.FormatYAML}))
	var fromYAML report.Report
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)

	var summary bytes.Buffer
	require.NoError(t, report.Render(&summary, violations, report.Options{Format: report.FormatSummary}))
	assert.Contains(t, summary.String(), "Total violations: 5")
	assert.Contains(t, summary.String(), validation.RequirementAssetLedger)
	assert.Contains(t, summary.String(), validation.RequirementStructure)
}

func TestValidate_CompliantTree(t *testing.T) {
	t.Parallel()

	root := testutil.CreatePipeline(t, t.TempDir())
	testutil.AddTriads(t, root)

	violations, err := validation.NewRunner(validation.Default(validation.Options{})...).Run(root)
	require.NoError(t, err)
	assert.Empty(t, violations)

	var text bytes.Buffer
	require.NoError(t, report.Render(&text, violations, report.Options{Format: report.FormatText}))
	assert.Contains(t, text.String(), "Status: "+report.StatusCompliant)
}
