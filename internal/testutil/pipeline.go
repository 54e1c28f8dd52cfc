package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// LedgerRow formats one asset ledger table row.
func LedgerRow(id, name, assetType, episodes string) string {
	return fmt.Sprintf("| %s | %s | %s | %s | |", id, name, assetType, episodes)
}

// pipelineConfig holds configuration for CreatePipeline
type pipelineConfig struct {
	ledgerRows []string
	noLedger   bool
	episodes   []string
	prose      *string
	outline    *string
}

// PipelineOption is a functional option for CreatePipeline
type PipelineOption func(*pipelineConfig)

// WithLedgerRows replaces the ledger table rows.
func WithLedgerRows(rows ...string) PipelineOption {
	return func(c *pipelineConfig) {
		c.ledgerRows = rows
	}
}

// WithoutLedger leaves assets/LEDGER.md out.
func WithoutLedger() PipelineOption {
	return func(c *pipelineConfig) {
		c.noLedger = true
	}
}

// WithEpisodes replaces the episode file names.
func WithEpisodes(names ...string) PipelineOption {
	return func(c *pipelineConfig) {
		c.episodes = names
	}
}

// WithProse sets prose/draft.md. An empty string leaves the file out.
func WithProse(content string) PipelineOption {
	return func(c *pipelineConfig) {
		c.prose = &content
	}
}

// WithOutline sets structure/outline.md. An empty string leaves the file out.
func WithOutline(content string) PipelineOption {
	return func(c *pipelineConfig) {
		c.outline = &content
	}
}

// DefaultProse references both default assets under the default outline.
const DefaultProse = `# Draft

## Intro
The story begins with asset-0001.

## Body
Then asset-0002 appears.
`

// DefaultOutline declares the sections of DefaultProse in order.
const DefaultOutline = `# Outline

## Section 1: Intro
## Section 2: Body
`

// CreatePipeline writes a consistent episodes/assets/prose/structure tree
// under root, adjusted by opts, and returns root.
func CreatePipeline(t *testing.T, root string, opts ...PipelineOption) string {
	t.Helper()

	prose, outline := DefaultProse, DefaultOutline
	config := &pipelineConfig{
		ledgerRows: []string{
			LedgerRow("asset-0001", "Opening", "scene", "01"),
			LedgerRow("asset-0002", "Turn", "event", "01, 02"),
		},
		episodes: []string{"episode-01.md", "episode-02.md"},
		prose:    &prose,
		outline:  &outline,
	}

	for _, opt := range opts {
		opt(config)
	}

	if !config.noLedger {
		var sb strings.Builder
		sb.WriteString("# Asset Ledger\n\n")
		sb.WriteString("| ID | Name | Type | Source Episode(s) | Notes |\n")
		sb.WriteString("|----|------|------|-------------------|-------|\n")
		for _, row := range config.ledgerRows {
			sb.WriteString(row + "\n")
		}
		WriteFile(t, filepath.Join(root, "assets", "LEDGER.md"), sb.String())
	}

	for _, name := range config.episodes {
		WriteFile(t, filepath.Join(root, "episodes", name), "# "+strings.TrimSuffix(name, ".md")+"\n")
	}

	if *config.prose != "" {
		WriteFile(t, filepath.Join(root, "prose", "draft.md"), *config.prose)
	}
	if *config.outline != "" {
		WriteFile(t, filepath.Join(root, "structure", "outline.md"), *config.outline)
	}

	return root
}
