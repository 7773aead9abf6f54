package validate

import "github.com/vk/flowforge/internal/schema"

// FlowStatus is the aggregate verdict over a whole flow.
type FlowStatus string

const (
	FlowValid    FlowStatus = "valid"
	FlowWarnings FlowStatus = "warnings"
	FlowErrors   FlowStatus = "errors"
)

// Node-level issue codes. These are topological problems, reported
// separately from per-connection schema issues.
const (
	// CodeNoInputConnection flags a transform node with zero incoming
	// connections; a transform with nothing to transform is always a
	// misconfiguration.
	CodeNoInputConnection = "no-input-connection"
)

// Connection-level issue codes added by the validator on top of the schema
// checker's own codes.
const (
	// CodeLinkSource flags a connection into a link node from a
	// non-interface source.
	CodeLinkSource = "link-source"
	// CodeDanglingEndpoint flags a connection referencing a node that no
	// longer exists in the document.
	CodeDanglingEndpoint = "dangling-endpoint"
)

// ConnectionResult is the compatibility outcome for one connection.
type ConnectionResult struct {
	ConnectionID string        `json:"connectionId"`
	SourceNodeID string        `json:"sourceNodeId"`
	TargetNodeID string        `json:"targetNodeId"`
	Result       schema.Result `json:"result"`
}

// NodeIssue is a flow-level error attached to a single node.
type NodeIssue struct {
	NodeID   string `json:"nodeId"`
	NodeName string `json:"nodeName"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Report aggregates one validation pass over a flow.
type Report struct {
	FlowID      string                `json:"flowId"`
	Status      FlowStatus            `json:"status"`
	Connections []ConnectionResult    `json:"connections"`
	NodeErrors  []NodeIssue           `json:"nodeErrors,omitempty"`
	Counts      map[schema.Status]int `json:"counts"`
}
