package schema

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// FromCtyType translates a cty type constraint, as written in a catalog
// manifest's type expression, into the structural schema language. Dynamic
// (any) constraints map to the unknown kind; map types map to an open object
// since their key set is unconstrained.
func FromCtyType(t cty.Type) *Schema {
	switch {
	case t == cty.NilType || t == cty.DynamicPseudoType:
		return Unknown()
	case t == cty.String:
		return &Schema{Kind: KindString}
	case t == cty.Number:
		return &Schema{Kind: KindNumber}
	case t == cty.Bool:
		return &Schema{Kind: KindBoolean}
	case t.IsListType() || t.IsSetType():
		return &Schema{Kind: KindArray, Items: FromCtyType(t.ElementType())}
	case t.IsTupleType():
		return fromTuple(t)
	case t.IsMapType():
		return &Schema{Kind: KindObject, Open: true}
	case t.IsObjectType():
		return fromObject(t)
	default:
		return Unknown()
	}
}

func fromObject(t cty.Type) *Schema {
	attrs := t.AttributeTypes()
	s := &Schema{Kind: KindObject, Properties: make(map[string]*Schema, len(attrs))}
	for name, attrType := range attrs {
		s.Properties[name] = FromCtyType(attrType)
		if !t.AttributeOptional(name) {
			s.Required = append(s.Required, name)
		}
	}
	sort.Strings(s.Required)
	return s
}

func fromTuple(t cty.Type) *Schema {
	s := &Schema{Kind: KindArray, Items: Unknown()}
	elems := t.TupleElementTypes()
	if len(elems) == 0 {
		return s
	}
	item := FromCtyType(elems[0])
	for _, elem := range elems[1:] {
		item = unify(item, FromCtyType(elem))
	}
	s.Items = item
	return s
}
