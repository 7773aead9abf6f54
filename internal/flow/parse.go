package flow

import (
	"encoding/json"
	"fmt"
)

// ParseDocument decodes one persisted flow document. Nil node or connection
// entries are rejected so downstream code never has to nil-check list
// elements.
func ParseDocument(raw []byte) (*Flow, error) {
	var f Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing flow document: %w", err)
	}
	if f.ID == "" {
		return nil, fmt.Errorf("flow document has no id")
	}
	for i, n := range f.Nodes {
		if n == nil {
			return nil, fmt.Errorf("flow %s: node entry %d is null", f.ID, i)
		}
		if n.ID == "" {
			return nil, fmt.Errorf("flow %s: node entry %d has no id", f.ID, i)
		}
	}
	for i, c := range f.Connections {
		if c == nil {
			return nil, fmt.Errorf("flow %s: connection entry %d is null", f.ID, i)
		}
	}
	return &f, nil
}

// Encode renders the document as indented JSON, the on-disk form consumed by
// ParseDocument.
func (f *Flow) Encode() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
