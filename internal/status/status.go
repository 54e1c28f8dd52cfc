// Package status reports where a governed tree stands in the
// episodes → assets → prose → output pipeline.
package status

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/canonic-tools/canonic/internal/validation"
)

// Pipeline stage labels.
const (
	StageEmpty   = "Empty"
	StageEpisode = "Episode"
	StageAsset   = "Asset"
	StageProse   = "Prose"
	StageOutput  = "Output"
)

const (
	reindexFile  = "REINDEX.md"
	metadataFile = "METADATA.md"
	outputDir    = "output"
	proseDir     = "prose"
	assetsDir    = "assets"
)

// Status is a snapshot of the pipeline.
type Status struct {
	Stage             string   `json:"current_stage" yaml:"current_stage"`
	Episodes          int      `json:"episodes" yaml:"episodes"`
	EpisodesImmutable bool     `json:"episodes_immutable" yaml:"episodes_immutable"`
	Assets            int      `json:"assets" yaml:"assets"`
	LedgerExists      bool     `json:"ledger_exists" yaml:"ledger_exists"`
	Prose             int      `json:"prose" yaml:"prose"`
	Output            int      `json:"output" yaml:"output"`
	MetadataExists    bool     `json:"metadata_exists" yaml:"metadata_exists"`
	Reindex           string   `json:"reindex,omitempty" yaml:"reindex,omitempty"` // stage directory holding REINDEX.md
	Problems          []string `json:"problems" yaml:"problems"`
}

// HasProblems reports whether any stage problem was found.
func (s *Status) HasProblems() bool {
	return len(s.Problems) > 0
}

// Collect inspects the pipeline rooted at root.
func Collect(root string) (*Status, error) {
	st := &Status{Problems: []string{}}
	var err error

	if st.Episodes, err = countEpisodes(filepath.Join(root, validation.EpisodesDir)); err != nil {
		return nil, err
	}

	ledgerPath := filepath.Join(root, filepath.FromSlash(validation.LedgerPath))
	if st.Assets, st.LedgerExists, err = countAssets(ledgerPath); err != nil {
		return nil, err
	}

	if st.Prose, err = countMarkdown(filepath.Join(root, proseDir), nil); err != nil {
		return nil, err
	}
	if st.Output, err = countMarkdown(filepath.Join(root, outputDir), []string{metadataFile}); err != nil {
		return nil, err
	}
	if st.MetadataExists, err = fileExists(filepath.Join(root, outputDir, metadataFile)); err != nil {
		return nil, err
	}
	if st.Reindex, err = activeReindex(root); err != nil {
		return nil, err
	}

	st.EpisodesImmutable = st.Assets > 0
	st.Stage = currentStage(st)
	st.Problems = problems(st)
	return st, nil
}

func currentStage(st *Status) string {
	switch {
	case st.Output > 0:
		return StageOutput
	case st.Prose > 0:
		return StageProse
	case st.Assets > 0:
		return StageAsset
	case st.Episodes > 0:
		return StageEpisode
	default:
		return StageEmpty
	}
}

func problems(st *Status) []string {
	found := []string{}
	if st.Prose > 0 && !st.LedgerExists {
		found = append(found, "Prose exists but assets/LEDGER.md missing")
	}
	if st.Output > 0 && st.Reindex != "" {
		found = append(found, fmt.Sprintf("Output exists despite active REINDEX in %s/", st.Reindex))
	}
	if st.Episodes > 0 && st.Assets == 0 {
		found = append(found, "Episodes exist but no assets extracted (pipeline stalled at Episode stage)")
	}
	return found
}

// NextSteps suggests what to do to advance the pipeline.
func NextSteps(st *Status) []string {
	switch {
	case st.Episodes == 0:
		return []string{"Create episodes/episode-01.md with raw input"}
	case st.Assets == 0:
		return []string{"Extract assets from episodes", "Register them in assets/LEDGER.md"}
	case st.Prose == 0:
		return []string{"Compose prose referencing registered assets"}
	case st.Output == 0:
		return []string{"Validate prose", "Generate output once validation passes"}
	case !st.MetadataExists:
		return []string{"Pipeline complete; consider adding output/METADATA.md"}
	default:
		return []string{"Pipeline complete"}
	}
}

func countEpisodes(dir string) (int, error) {
	entries, err := readDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && validation.EpisodeFilePattern.MatchString(e.Name()) {
			n++
		}
	}
	return n, nil
}

// countAssets counts the distinct asset IDs mentioned in the ledger.
func countAssets(ledgerPath string) (int, bool, error) {
	data, err := os.ReadFile(ledgerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("reading ledger: %w", err)
	}
	seen := make(map[string]struct{})
	for _, id := range validation.AssetRefPattern.FindAllString(string(data), -1) {
		seen[id] = struct{}{}
	}
	return len(seen), true, nil
}

func countMarkdown(dir string, exclude []string) (int, error) {
	entries, err := readDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || validation.IsTriadFile(name) || name == reindexFile {
			continue
		}
		if slices.Contains(exclude, name) {
			continue
		}
		n++
	}
	return n, nil
}

// activeReindex returns the first stage directory holding REINDEX.md.
func activeReindex(root string) (string, error) {
	for _, dir := range []string{validation.EpisodesDir, assetsDir, proseDir, outputDir} {
		ok, err := fileExists(filepath.Join(root, dir, reindexFile))
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}
	}
	return "", nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return entries, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}
