package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// EpisodeRecord is one correctly named episode file.
type EpisodeRecord struct {
	ID       string `json:"id" yaml:"id"`
	FilePath string `json:"file" yaml:"file"`
}

// EpisodeIndex is the set of valid episodes in an episode directory.
type EpisodeIndex struct {
	Episodes []EpisodeRecord // lexicographic filename order
	ids      map[string]struct{}
}

// Has reports whether an episode with the given 2-digit ID exists.
func (e *EpisodeIndex) Has(id string) bool {
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of valid episodes.
func (e *EpisodeIndex) Len() int {
	return len(e.Episodes)
}

// ListEpisodes indexes the episode files in dir. Triad files and
// subdirectories are skipped; any other file that does not match
// EpisodeFilePattern is reported and left out of the index.
// A missing directory yields an empty index without a violation.
func ListEpisodes(dir string, sink *Sink) (*EpisodeIndex, error) {
	index := &EpisodeIndex{ids: make(map[string]struct{})}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if isNotExist(err) {
			return index, nil
		}
		return nil, fmt.Errorf("listing episodes: %w", err)
	}

	// os.ReadDir returns entries sorted by filename.
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || IsTriadFile(name) {
			continue
		}

		path := filepath.Join(dir, name)
		match := EpisodeFilePattern.FindStringSubmatch(name)
		if match == nil {
			sink.Add(path, 0, RequirementAssetLedger, fmt.Sprintf(
				"Episode filename '%s' has invalid format (expected: episode-NN.md with 2 digits).", name))
			continue
		}

		id := match[1]
		index.ids[id] = struct{}{}
		index.Episodes = append(index.Episodes, EpisodeRecord{ID: id, FilePath: path})
	}

	return index, nil
}
