package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Infer derives a structural schema from a JSON-like sample value, as
// produced by encoding/json unmarshalling into any (map[string]any, []any,
// string, float64, bool, nil).
//
// Policy: inferred objects are closed and every observed key is required.
// Strictness is deliberate. An open policy would hide genuine missing-field
// errors from the compatibility check; a closed one at worst produces a
// warning the user can clear by capturing a fresh sample.
//
// Infer never fails: values outside the JSON model degrade to the unknown
// kind.
func Infer(sample any) *Schema {
	switch v := sample.(type) {
	case nil:
		return &Schema{Kind: KindNull}
	case bool:
		return &Schema{Kind: KindBoolean}
	case string:
		return &Schema{Kind: KindString}
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return &Schema{Kind: KindNumber}
	case map[string]any:
		return inferObject(v)
	case []any:
		return inferArray(v)
	default:
		return Unknown()
	}
}

// InferJSON parses raw JSON and infers a schema from the result. Malformed
// input is the only failure mode.
func InferJSON(raw []byte) (*Schema, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON sample: %w", err)
	}
	return Infer(v), nil
}

func inferObject(m map[string]any) *Schema {
	s := &Schema{Kind: KindObject, Properties: make(map[string]*Schema, len(m))}
	for key, val := range m {
		s.Properties[key] = Infer(val)
		s.Required = append(s.Required, key)
	}
	// Map iteration order is random; keep the required list stable.
	sort.Strings(s.Required)
	return s
}

func inferArray(items []any) *Schema {
	s := &Schema{Kind: KindArray, Items: Unknown()}
	if len(items) == 0 {
		return s
	}
	item := Infer(items[0])
	for _, elem := range items[1:] {
		item = unify(item, Infer(elem))
	}
	s.Items = item
	return s
}

// unify computes the loosest schema both a and b conform to. Kinds that
// disagree collapse to unknown. For objects, properties present in both
// sides are unified recursively, properties on one side only become
// optional, and the object opens up since members disagreed.
func unify(a, b *Schema) *Schema {
	if a == nil || b == nil {
		return Unknown()
	}
	if a.Kind != b.Kind {
		return Unknown()
	}
	switch a.Kind {
	case KindObject:
		return unifyObjects(a, b)
	case KindArray:
		return &Schema{Kind: KindArray, Items: unify(a.Items, b.Items)}
	default:
		return &Schema{Kind: a.Kind}
	}
}

func unifyObjects(a, b *Schema) *Schema {
	out := &Schema{Kind: KindObject, Properties: map[string]*Schema{}, Open: a.Open || b.Open}
	for name, propA := range a.Properties {
		if propB, ok := b.Properties[name]; ok {
			out.Properties[name] = unify(propA, propB)
		} else {
			out.Properties[name] = propA.Clone()
			out.Open = true
		}
	}
	for name, propB := range b.Properties {
		if _, ok := a.Properties[name]; !ok {
			out.Properties[name] = propB.Clone()
			out.Open = true
		}
	}
	for _, name := range a.Required {
		if b.IsRequired(name) {
			out.Required = append(out.Required, name)
		}
	}
	sort.Strings(out.Required)
	return out
}
