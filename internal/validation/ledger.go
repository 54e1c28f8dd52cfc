package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Ledger table columns.
const (
	ledgerColID = iota
	ledgerColName
	ledgerColType
	ledgerColSources
)

// AssetRecord is one well-formed row of the asset ledger.
type AssetRecord struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Type           string   `json:"type" yaml:"type"`
	SourceEpisodes []string `json:"source_episodes" yaml:"source_episodes"`
	LineNumber     int      `json:"line" yaml:"line"`
}

// Ledger holds the records parsed from one ledger file, in file order.
type Ledger struct {
	Records []AssetRecord
	ids     map[string]int // ID -> index of first record
}

func newLedger() *Ledger {
	return &Ledger{ids: make(map[string]int)}
}

// Has reports whether id is registered.
func (l *Ledger) Has(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Lookup returns the first record registered under id.
func (l *Ledger) Lookup(id string) (AssetRecord, bool) {
	idx, ok := l.ids[id]
	if !ok {
		return AssetRecord{}, false
	}
	return l.Records[idx], true
}

// IDs returns the registered IDs in ascending order.
func (l *Ledger) IDs() []string {
	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of distinct registered IDs.
func (l *Ledger) Len() int {
	return len(l.ids)
}

func (l *Ledger) add(rec AssetRecord) {
	if _, dup := l.ids[rec.ID]; !dup {
		l.ids[rec.ID] = len(l.Records)
	}
	l.Records = append(l.Records, rec)
}

// ParseLedger reads the asset ledger at path. Rows whose ID is malformed are
// reported and dropped; well-formed IDs must count up from asset-0001 without gaps.
// A missing ledger is reported once and yields an empty ledger.
func ParseLedger(path string, sink *Sink) (*Ledger, error) {
	ledger := newLedger()
	expectedNext := 1

	err := ScanLines(path, func(lineNum int, line string) {
		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, ledgerRowPrefix) {
			return
		}

		columns := splitRow(stripped)
		id := columns[ledgerColID]

		if !AssetIDPattern.MatchString(id) {
			sink.Add(path, lineNum, RequirementAssetLedger, fmt.Sprintf(
				"Asset ID '%s' has invalid format (expected: asset-NNNN with 4 digits).", id))
			return
		}

		num, _ := strconv.Atoi(strings.TrimPrefix(id, assetIDPrefix))
		if num != expectedNext {
			sink.Add(path, lineNum, RequirementAssetLedger, fmt.Sprintf(
				"Asset ID %s breaks sequential order (expected: %s).", id, formatAssetID(expectedNext)))
		}
		expectedNext = num + 1

		ledger.add(AssetRecord{
			ID:             id,
			Name:           column(columns, ledgerColName),
			Type:           column(columns, ledgerColType),
			SourceEpisodes: splitList(column(columns, ledgerColSources)),
			LineNumber:     lineNum,
		})
	})
	if err != nil {
		if isNotExist(err) {
			sink.Add(path, 0, RequirementAssetLedger,
				"Asset ledger is missing; cannot validate asset references.")
			return newLedger(), nil
		}
		return nil, fmt.Errorf("parsing asset ledger: %w", err)
	}

	return ledger, nil
}

// formatAssetID renders n as a ledger ID.
func formatAssetID(n int) string {
	return fmt.Sprintf("%s%04d", assetIDPrefix, n)
}

// splitRow splits a pipe table row into trimmed cells.
func splitRow(row string) []string {
	cells := strings.Split(strings.Trim(row, "|"), "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func column(columns []string, idx int) string {
	if idx < len(columns) {
		return columns[idx]
	}
	return ""
}

// splitList splits a comma-separated cell, dropping empty entries.
func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
