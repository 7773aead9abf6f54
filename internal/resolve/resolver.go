// Package resolve computes the effective input and output schema of a node
// instance: statically from its catalog definition, dynamically from its
// parameters, or from a previously-captured sample stored on the instance.
package resolve

import (
	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/schema"
)

// Resolution is the outcome of resolving one node's schemas. A nil schema
// always pairs with a non-defined state.
type Resolution struct {
	InputState   schema.State   `json:"inputState"`
	InputSchema  *schema.Schema `json:"inputSchema,omitempty"`
	OutputState  schema.State   `json:"outputState"`
	OutputSchema *schema.Schema `json:"outputSchema,omitempty"`
}

// Resolver resolves node schemas against a read-only catalog.
type Resolver struct {
	catalog *catalog.Registry
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(reg *catalog.Registry) *Resolver {
	return &Resolver{catalog: reg}
}

// Resolve produces the node's effective schemas and resolution states.
//
// A node type missing from the catalog is not an error: it resolves to
// unknown on both sides so a flow containing a deprecated or placeholder
// type can still be partially validated.
func (r *Resolver) Resolve(node *flow.Node) Resolution {
	def := r.catalog.Lookup(node.Type)
	if def == nil {
		return Resolution{InputState: schema.StateUnknown, OutputState: schema.StateUnknown}
	}

	switch node.Type {
	case catalog.TypeHTTPRequest:
		return r.resolveExternalCall(def, node)
	case catalog.TypeUIComponent:
		return r.resolveInterfaceEmbed(node)
	default:
		return r.resolveGeneric(def, node)
	}
}

// resolveGeneric is the common path: a parameter-driven schema hook when the
// definition carries one, otherwise the static schemas from the manifest.
func (r *Resolver) resolveGeneric(def *catalog.Definition, node *flow.Node) Resolution {
	res := Resolution{
		InputState:  stateFor(def.Input),
		InputSchema: def.Input.Clone(),
	}

	if def.DynamicOutput != nil {
		out := def.DynamicOutput(node.Parameters)
		res.OutputState = stateFor(out)
		res.OutputSchema = out
		return res
	}

	res.OutputState = stateFor(def.Output)
	res.OutputSchema = def.Output.Clone()
	return res
}

// resolveExternalCall handles nodes whose output cannot be known until a
// sample response has been captured. Until then the output is pending; once
// a schema is stored on the instance it is merged over the static base, so
// fixed response fields and sample-derived fields coexist.
func (r *Resolver) resolveExternalCall(def *catalog.Definition, node *flow.Node) Resolution {
	res := Resolution{
		InputState:  stateFor(def.Input),
		InputSchema: def.Input.Clone(),
		OutputState: schema.StatePending,
	}

	stored, ok := node.Parameters[flow.ParamOutputSchema]
	if !ok {
		return res
	}
	captured, err := schema.FromValue(stored)
	if err != nil {
		// A corrupt stored schema reads as not-yet-resolved.
		return res
	}
	res.OutputState = schema.StateDefined
	res.OutputSchema = schema.Merge(def.Output, captured)
	return res
}

// resolveInterfaceEmbed handles embedded interface components: the input
// schema lives on the instance itself, and the output is a permissive open
// object since the component passes data through.
func (r *Resolver) resolveInterfaceEmbed(node *flow.Node) Resolution {
	res := Resolution{
		InputState:   schema.StateUnknown,
		OutputState:  schema.StateDefined,
		OutputSchema: schema.OpenObject(),
	}
	if stored, ok := node.Parameters[flow.ParamInputSchema]; ok {
		if declared, err := schema.FromValue(stored); err == nil {
			res.InputState = schema.StateDefined
			res.InputSchema = declared
		}
	}
	return res
}

func stateFor(s *schema.Schema) schema.State {
	if s == nil {
		return schema.StateUnknown
	}
	return schema.StateDefined
}
