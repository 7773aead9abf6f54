package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Kind is the tag of the Schema variant. The set is closed; every consumer
// switching on Kind can be exhaustive.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindUnknown Kind = "unknown"
)

// Schema is a structural description of a data shape. Properties and Items
// are only meaningful for the object and array kinds respectively.
type Schema struct {
	Kind       Kind               `json:"kind"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`

	// Open marks an object that tolerates properties beyond those listed.
	Open bool `json:"open,omitempty"`
}

// State describes how much is known about a node's schema.
type State string

const (
	// StateUnknown means no schema information is available.
	StateUnknown State = "unknown"
	// StatePending means the node type supports schema discovery but no
	// sample has been captured yet.
	StatePending State = "pending"
	// StateDefined means a concrete schema is available.
	StateDefined State = "defined"
)

// Unknown returns a schema carrying no shape information.
func Unknown() *Schema {
	return &Schema{Kind: KindUnknown}
}

// OpenObject returns a permissive object schema that accepts any properties.
func OpenObject() *Schema {
	return &Schema{Kind: KindObject, Open: true}
}

// IsRequired reports whether the named property is required by s.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// Clone returns a deep copy of s. A nil schema clones to nil.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{Kind: s.Kind, Open: s.Open, Items: s.Items.Clone()}
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.Clone()
		}
	}
	out.Required = slices.Clone(s.Required)
	return out
}

// Merge lays overlay on top of base and returns the combined schema. For two
// objects the property maps are unioned with overlay winning per property,
// and the required sets are unioned. For any other pairing overlay replaces
// base entirely. Neither input is mutated.
func Merge(base, overlay *Schema) *Schema {
	if overlay == nil {
		return base.Clone()
	}
	if base == nil {
		return overlay.Clone()
	}
	if base.Kind != KindObject || overlay.Kind != KindObject {
		return overlay.Clone()
	}

	out := base.Clone()
	if out.Properties == nil && len(overlay.Properties) > 0 {
		out.Properties = make(map[string]*Schema, len(overlay.Properties))
	}
	for name, prop := range overlay.Properties {
		out.Properties[name] = prop.Clone()
	}
	for _, name := range overlay.Required {
		if !out.IsRequired(name) {
			out.Required = append(out.Required, name)
		}
	}
	out.Open = base.Open || overlay.Open
	return out
}

// FromValue decodes a schema that was previously stored as plain JSON data,
// for example inside a node's parameter bag. It accepts *Schema, raw JSON
// and map[string]any representations.
func FromValue(v any) (*Schema, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("schema value is nil")
	case *Schema:
		return val.Clone(), nil
	case json.RawMessage:
		var s Schema
		if err := json.Unmarshal(val, &s); err != nil {
			return nil, fmt.Errorf("decoding stored schema: %w", err)
		}
		return &s, nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("encoding stored schema value: %w", err)
		}
		var s Schema
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding stored schema: %w", err)
		}
		return &s, nil
	}
}
