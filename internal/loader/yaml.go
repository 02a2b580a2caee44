package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlSuite struct {
	metadataDoc `yaml:",inline"`
	Algorithms  []yaml.Node `yaml:"algorithms"`
}

// parseYAML decodes the document skeleton first and each entry node on its
// own, so a malformed entry is dropped instead of failing the load.
func parseYAML(data []byte) (metadataDoc, []rawEntry, error) {
	var suite yamlSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return metadataDoc{}, nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrInvalidDocument, err)
	}
	if suite.Algorithms == nil {
		return suite.metadataDoc, nil, nil
	}

	entries := make([]rawEntry, 0, len(suite.Algorithms))
	for i := range suite.Algorithms {
		var e entryDoc
		if err := suite.Algorithms[i].Decode(&e); err != nil {
			entries = append(entries, rawEntry{doc: e, decodeErr: fmt.Errorf("line %d: %w", suite.Algorithms[i].Line, err)})
			continue
		}
		entries = append(entries, rawEntry{doc: e})
	}
	return suite.metadataDoc, entries, nil
}
