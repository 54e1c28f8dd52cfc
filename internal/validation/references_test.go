// Package validation_test tests prose reference scanning against the asset ledger.
// Related: internal/validation/references.go
// Tags: validation, references, prose, closure
package validation

import (
	"path/filepath"
	"testing"

	"github.com/canonic-tools/canonic/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerWith(t *testing.T, ids ...string) *Ledger {
	t.Helper()
	root := t.TempDir()
	rows := make([]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, testutil.LedgerRow(id, "n", "t", "01"))
	}
	ledger, err := ParseLedger(writeLedger(t, root, rows...), NewSink(root))
	require.NoError(t, err)
	return ledger
}

func TestFindReferences(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "prose", "draft.md")
	testutil.WriteFile(t, path, "asset-0002 then asset-0001\nnone here\nxasset-0003y asset-12\n")

	refs, err := FindReferences(path)
	require.NoError(t, err)
	assert.Equal(t, []Reference{
		{AssetID: "asset-0002", LineNumber: 1, DocumentPath: path},
		{AssetID: "asset-0001", LineNumber: 1, DocumentPath: path},
		{AssetID: "asset-0003", LineNumber: 3, DocumentPath: path},
	}, refs)
}

func TestScanReferences(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ledger []string
		prose  string
		want   []Violation
	}{
		"all references registered": {
			ledger: []string{"asset-0001", "asset-0002"},
			prose:  "Uses asset-0001.\nAnd asset-0002.\n",
		},
		"one unknown reference": {
			ledger: []string{"asset-0001", "asset-0002"},
			prose:  "Uses asset-0001.\nAnd asset-0003.\n",
			want: []Violation{{Artifact: "prose/draft.md", Line: 2, Requirement: RequirementAssetLedger,
				Details: "Prose references asset-0003 which is not registered in the asset ledger."}},
		},
		"first occurrence only": {
			ledger: []string{"asset-0001"},
			prose:  "intro\nasset-0007 first\nasset-0007 again\nasset-0007 asset-0007 thrice\n",
			want: []Violation{{Artifact: "prose/draft.md", Line: 2, Requirement: RequirementAssetLedger,
				Details: "Prose references asset-0007 which is not registered in the asset ledger."}},
		},
		"distinct misses in line order": {
			ledger: []string{},
			prose:  "asset-0005 asset-0004\nasset-0005\n",
			want: []Violation{
				{Artifact: "prose/draft.md", Line: 1, Requirement: RequirementAssetLedger,
					Details: "Prose references asset-0005 which is not registered in the asset ledger."},
				{Artifact: "prose/draft.md", Line: 1, Requirement: RequirementAssetLedger,
					Details: "Prose references asset-0004 which is not registered in the asset ledger."},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			path := filepath.Join(root, "prose", "draft.md")
			testutil.WriteFile(t, path, tt.prose)

			sink := NewSink(root)
			require.NoError(t, ScanReferences(path, ledgerWith(t, tt.ledger...), sink))
			assert.Equal(t, tt.want, sink.Violations())
		})
	}
}

func TestScanReferences_MissingDocument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sink := NewSink(root)
	err := ScanReferences(filepath.Join(root, "prose", "draft.md"), ledgerWith(t, "asset-0001"), sink)
	require.NoError(t, err)
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, "Prose document is missing; cannot validate asset references.", sink.Violations()[0].Details)
	assert.Equal(t, "prose/draft.md", sink.Violations()[0].Artifact)
}

func TestScanReferences_EmptyLedgerTolerated(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sink := NewSink(root)
	ledger, err := ParseLedger(filepath.Join(root, "assets", "LEDGER.md"), sink)
	require.NoError(t, err)

	path := filepath.Join(root, "prose", "draft.md")
	testutil.WriteFile(t, path, "asset-0001\n")
	require.NoError(t, ScanReferences(path, ledger, sink))
	assert.Equal(t, 2, sink.Len(), "missing ledger plus one unknown reference")
}
