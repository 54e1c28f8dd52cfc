package validation

import (
	"regexp"
	"slices"
)

// assetIDBody is the only definition of an asset identifier's shape. The
// ledger check anchors it, the prose scanner searches for it unanchored.
const assetIDBody = `asset-\d{4}`

var (
	// AssetIDPattern matches a complete, well-formed ledger ID: "asset-0001".
	AssetIDPattern = regexp.MustCompile(`^` + assetIDBody + `$`)
	// AssetRefPattern finds asset IDs embedded in free text.
	AssetRefPattern = regexp.MustCompile(assetIDBody)
	// EpisodeFilePattern matches episode filenames and captures the 2-digit ID.
	EpisodeFilePattern = regexp.MustCompile(`^episode-(\d{2})\.md$`)
)

const (
	// assetIDPrefix precedes the numeric part of an asset ID.
	assetIDPrefix = "asset-"
	// ledgerRowPrefix starts every ledger data row after trimming.
	ledgerRowPrefix = "| " + assetIDPrefix
	// outlineSectionMarker starts a section declaration in the outline.
	outlineSectionMarker = "## Section"
	// proseHeadingMarker starts a second-level prose heading.
	proseHeadingMarker = "## "
)

// Fixed artifact locations relative to a pipeline root.
const (
	LedgerPath  = "assets/LEDGER.md"
	EpisodesDir = "episodes"
	ProsePath   = "prose/draft.md"
	OutlinePath = "structure/outline.md"
)

// Canonical triad filenames.
const (
	CanonFile      = "CANON.md"
	DictionaryFile = "DICTIONARY.md"
	ReadmeFile     = "README.md"
)

// TriadFiles lists the triad in reporting order.
var TriadFiles = []string{CanonFile, DictionaryFile, ReadmeFile}

// IsTriadFile reports whether name is one of the triad filenames.
func IsTriadFile(name string) bool {
	return slices.Contains(TriadFiles, name)
}
