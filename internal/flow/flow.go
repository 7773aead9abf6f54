// Package flow defines the persisted document model for a single flow: an
// ordered list of node instances plus an unordered list of directed
// connections between them. The document is always loaded, mutated and saved
// as a whole.
package flow

import "maps"

// Well-known keys inside a node's parameter bag.
const (
	// ParamOutputSchema caches a previously-inferred output schema for node
	// types whose shape is discovered from a captured sample.
	ParamOutputSchema = "outputSchema"
	// ParamInputSchema holds the declared input schema of an embedded
	// interface component.
	ParamInputSchema = "inputSchema"
	// ParamToolName is the globally-unique tool name derived for trigger
	// nodes.
	ParamToolName = "toolName"
	// ParamActive, ParamDescription and ParamParameters are the
	// trigger-specific default fields.
	ParamActive      = "active"
	ParamDescription = "description"
	ParamParameters  = "parameters"
)

// Position holds layout coordinates for the visual editor. Opaque to the
// graph and schema logic.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one configured occurrence of a node type within a flow. Name is
// the human-facing identifier and must be unique among siblings; ID is
// system-generated and stable for the node's lifetime.
type Node struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Position   Position       `json:"position"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Connection is a directed edge from a source node's output port to a target
// node's input port. The handles identify sub-ports and may be empty for
// nodes with a single port.
type Connection struct {
	ID           string `json:"id"`
	SourceNodeID string `json:"sourceNodeId"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetNodeID string `json:"targetNodeId"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Flow is the aggregate root owning nodes and connections.
type Flow struct {
	ID          string        `json:"id"`
	Name        string        `json:"name,omitempty"`
	Nodes       []*Node       `json:"nodes"`
	Connections []*Connection `json:"connections"`
}

// NodeByID returns the node with the given id, or nil.
func (f *Flow) NodeByID(id string) *Node {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeByName returns the node with the given human-facing name, or nil.
func (f *Flow) NodeByName(name string) *Node {
	for _, n := range f.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// ConnectionByID returns the connection with the given id, or nil.
func (f *Flow) ConnectionByID(id string) *Connection {
	for _, c := range f.Connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of the flow. Parameter bags are copied one level
// deep, matching the shallow-merge semantics of node updates.
func (f *Flow) Clone() *Flow {
	if f == nil {
		return nil
	}
	out := &Flow{ID: f.ID, Name: f.Name}
	for _, n := range f.Nodes {
		out.Nodes = append(out.Nodes, n.Clone())
	}
	for _, c := range f.Connections {
		copied := *c
		out.Connections = append(out.Connections, &copied)
	}
	return out
}

// Clone returns a copy of the node with its own parameter map.
func (n *Node) Clone() *Node {
	copied := *n
	if n.Parameters != nil {
		copied.Parameters = maps.Clone(n.Parameters)
	}
	return &copied
}
