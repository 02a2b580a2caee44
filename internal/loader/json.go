package loader

import (
	"encoding/json"
	"fmt"
)

type jsonSuite struct {
	metadataDoc
	Algorithms []json.RawMessage `json:"algorithms"`
}

// parseJSON decodes the document skeleton first and each entry on its own,
// so a malformed entry is dropped instead of failing the load.
func parseJSON(data []byte) (metadataDoc, []rawEntry, error) {
	var suite jsonSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return metadataDoc{}, nil, fmt.Errorf("%w: failed to parse JSON: %w", ErrInvalidDocument, err)
	}
	if suite.Algorithms == nil {
		return suite.metadataDoc, nil, nil
	}

	entries := make([]rawEntry, 0, len(suite.Algorithms))
	for _, raw := range suite.Algorithms {
		var e entryDoc
		if err := json.Unmarshal(raw, &e); err != nil {
			entries = append(entries, rawEntry{doc: e, decodeErr: fmt.Errorf("failed to decode entry: %w", err)})
			continue
		}
		entries = append(entries, rawEntry{doc: e})
	}
	return suite.metadataDoc, entries, nil
}
