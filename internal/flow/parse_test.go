package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowforge/internal/flow"
)

const sampleDocument = `{
  "id": "flow-1",
  "name": "Order intake",
  "nodes": [
    {
      "id": "n1",
      "type": "webhook_trigger",
      "name": "New Order",
      "position": {"x": 100, "y": 40},
      "parameters": {"toolName": "new_order", "active": true}
    },
    {
      "id": "n2",
      "type": "http_request",
      "name": "Fetch Customer"
    }
  ],
  "connections": [
    {
      "id": "c1",
      "sourceNodeId": "n1",
      "sourceHandle": "out",
      "targetNodeId": "n2",
      "targetHandle": "in"
    }
  ]
}`

func TestParseDocument(t *testing.T) {
	t.Parallel()

	f, err := flow.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "flow-1", f.ID)
	assert.Equal(t, "Order intake", f.Name)
	require.Len(t, f.Nodes, 2)
	assert.Equal(t, flow.Position{X: 100, Y: 40}, f.Nodes[0].Position)
	assert.Equal(t, "new_order", f.Nodes[0].Parameters[flow.ParamToolName])
	require.Len(t, f.Connections, 1)
	assert.Equal(t, "n1", f.Connections[0].SourceNodeID)
	assert.Equal(t, "in", f.Connections[0].TargetHandle)
}

func TestParseDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{broken`},
		{"missing flow id", `{"name": "x"}`},
		{"null node entry", `{"id": "f1", "nodes": [null]}`},
		{"node without id", `{"id": "f1", "nodes": [{"type": "x"}]}`},
		{"null connection entry", `{"id": "f1", "connections": [null]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.ParseDocument([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := flow.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	encoded, err := f.Encode()
	require.NoError(t, err)

	again, err := flow.ParseDocument(encoded)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestFlowLookups(t *testing.T) {
	t.Parallel()

	f, err := flow.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	assert.NotNil(t, f.NodeByID("n1"))
	assert.Nil(t, f.NodeByID("ghost"))
	assert.NotNil(t, f.NodeByName("Fetch Customer"))
	assert.Nil(t, f.NodeByName("ghost"))
	assert.NotNil(t, f.ConnectionByID("c1"))
	assert.Nil(t, f.ConnectionByID("ghost"))
}

func TestClone(t *testing.T) {
	t.Parallel()

	f, err := flow.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	clone := f.Clone()
	clone.Nodes[0].Name = "Changed"
	clone.Nodes[0].Parameters["active"] = false
	clone.Connections[0].TargetHandle = "elsewhere"

	assert.Equal(t, "New Order", f.Nodes[0].Name)
	assert.Equal(t, true, f.Nodes[0].Parameters["active"])
	assert.Equal(t, "in", f.Connections[0].TargetHandle)
}
