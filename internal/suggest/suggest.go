// Package suggest recommends transform-category node types capable of
// repairing an incompatible connection. Output is advisory: the editor shows
// it next to the diagnostic, nothing enforces it.
package suggest

import (
	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/schema"
)

// Confidence ranks how likely a suggested transformer is to resolve the
// mismatch.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Suggestion is one recommended transformer node type.
type Suggestion struct {
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Confidence  Confidence `json:"confidence"`
}

// Suggest returns transformer recommendations for a compatibility status.
// Compatible and unknown connections need no repair and get none. Otherwise
// every transform-category catalog entry is returned; the general-purpose
// code transform ranks high since it can resolve arbitrary shape mismatches,
// all others medium.
func Suggest(status schema.Status, reg *catalog.Registry) []Suggestion {
	if status != schema.StatusWarning && status != schema.StatusError {
		return nil
	}

	var out []Suggestion
	for _, def := range reg.Transforms() {
		confidence := ConfidenceMedium
		if def.Name == catalog.TypeCodeTransform {
			confidence = ConfidenceHigh
		}
		out = append(out, Suggestion{
			Type:        def.Name,
			Description: def.Description,
			Confidence:  confidence,
		})
	}
	return out
}
