package validation

import "fmt"

// Reference is an asset ID occurrence inside a document.
type Reference struct {
	AssetID      string `json:"asset_id" yaml:"asset_id"`
	LineNumber   int    `json:"line" yaml:"line"`
	DocumentPath string `json:"document" yaml:"document"`
}

// FindReferences returns every asset ID occurrence in the document, in line
// order and left to right within a line.
func FindReferences(path string) ([]Reference, error) {
	var refs []Reference
	err := ScanLines(path, func(lineNum int, line string) {
		for _, id := range AssetRefPattern.FindAllString(line, -1) {
			refs = append(refs, Reference{AssetID: id, LineNumber: lineNum, DocumentPath: path})
		}
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ScanReferences reports each distinct asset ID referenced by the document
// at path that the ledger does not register, at the line of its first
// occurrence. A missing document is reported once.
func ScanReferences(path string, ledger *Ledger, sink *Sink) error {
	refs, err := FindReferences(path)
	if err != nil {
		if isNotExist(err) {
			sink.Add(path, 0, RequirementAssetLedger,
				"Prose document is missing; cannot validate asset references.")
			return nil
		}
		return fmt.Errorf("scanning references: %w", err)
	}

	reported := make(map[string]struct{})
	for _, ref := range refs {
		if ledger.Has(ref.AssetID) {
			continue
		}
		if _, seen := reported[ref.AssetID]; seen {
			continue
		}
		reported[ref.AssetID] = struct{}{}
		sink.Add(path, ref.LineNumber, RequirementAssetLedger, fmt.Sprintf(
			"Prose references %s which is not registered in the asset ledger.", ref.AssetID))
	}
	return nil
}
