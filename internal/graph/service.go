package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
)

// Service is the graph mutation service. All operations are scoped to one
// flow identified by id; the caller is expected to serialise operations per
// flow (see flowstore).
type Service struct {
	store   flowstore.Store
	catalog *catalog.Registry
	namer   ToolNamer
}

// NewService wires the mutation service. A nil namer falls back to the
// default in-process tool namer.
func NewService(store flowstore.Store, reg *catalog.Registry, namer ToolNamer) *Service {
	if namer == nil {
		namer = NewToolNames()
	}
	return &Service{store: store, catalog: reg, namer: namer}
}

// NodeUpdate carries the optional fields of an update operation. Nil fields
// are left untouched; Parameters are shallow-merged into the existing bag.
type NodeUpdate struct {
	Name       *string
	Position   *flow.Position
	Parameters map[string]any
}

// ListNodes returns the flow's node list, empty if none exist.
func (s *Service) ListNodes(ctx context.Context, flowID string) ([]*flow.Node, error) {
	f, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	nodes := make([]*flow.Node, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes = append(nodes, n.Clone())
	}
	return nodes, nil
}

// ListConnections returns the flow's connection list, empty if none exist.
func (s *Service) ListConnections(ctx context.Context, flowID string) ([]*flow.Connection, error) {
	f, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	conns := make([]*flow.Connection, 0, len(f.Connections))
	for _, c := range f.Connections {
		copied := *c
		conns = append(conns, &copied)
	}
	return conns, nil
}

// AddNode creates a node in the flow. The name must be unique among the
// flow's nodes. Trigger nodes additionally get a globally-unique tool name
// and their default fields populated.
func (s *Service) AddNode(ctx context.Context, flowID, typeName, name string, pos flow.Position, params map[string]any) (*flow.Node, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if f.NodeByName(name) != nil {
		return nil, fmt.Errorf("adding node %q: %w", name, ErrNameConflict)
	}

	node := &flow.Node{
		ID:         uuid.NewString(),
		Type:       typeName,
		Name:       name,
		Position:   pos,
		Parameters: map[string]any{},
	}
	for k, v := range params {
		node.Parameters[k] = v
	}

	if s.isTrigger(typeName) {
		if err := s.prepareTrigger(ctx, node); err != nil {
			return nil, err
		}
	}

	f.Nodes = append(f.Nodes, node)
	if err := s.store.SaveFlow(ctx, f); err != nil {
		return nil, err
	}
	logger.Debug("Node added.", "flow_id", flowID, "node_id", node.ID, "type", typeName)
	return node.Clone(), nil
}

// UpdateNode applies a partial update. A name change re-checks uniqueness
// and, for trigger nodes, regenerates the tool name.
func (s *Service) UpdateNode(ctx context.Context, flowID, nodeID string, upd NodeUpdate) (*flow.Node, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	node := f.NodeByID(nodeID)
	if node == nil {
		return nil, &NotFoundError{Kind: "node", ID: nodeID}
	}

	if upd.Name != nil && *upd.Name != node.Name {
		if other := f.NodeByName(*upd.Name); other != nil && other.ID != nodeID {
			return nil, fmt.Errorf("renaming node to %q: %w", *upd.Name, ErrNameConflict)
		}
		node.Name = *upd.Name
		if s.isTrigger(node.Type) {
			if err := s.prepareTrigger(ctx, node); err != nil {
				return nil, err
			}
		}
	}
	if upd.Position != nil {
		node.Position = *upd.Position
	}
	if len(upd.Parameters) > 0 {
		if node.Parameters == nil {
			node.Parameters = map[string]any{}
		}
		for k, v := range upd.Parameters {
			node.Parameters[k] = v
		}
	}

	if err := s.store.SaveFlow(ctx, f); err != nil {
		return nil, err
	}
	logger.Debug("Node updated.", "flow_id", flowID, "node_id", nodeID)
	return node.Clone(), nil
}

// UpdateNodePosition moves a node. This is the narrow, high-frequency
// variant of UpdateNode used on every drag event; it deliberately skips
// everything but the position write.
func (s *Service) UpdateNodePosition(ctx context.Context, flowID, nodeID string, pos flow.Position) (*flow.Node, error) {
	f, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	node := f.NodeByID(nodeID)
	if node == nil {
		return nil, &NotFoundError{Kind: "node", ID: nodeID}
	}
	node.Position = pos
	if err := s.store.SaveFlow(ctx, f); err != nil {
		return nil, err
	}
	return node.Clone(), nil
}

// DeleteNode removes a node and, in the same write, every connection whose
// source or target is that node.
func (s *Service) DeleteNode(ctx context.Context, flowID, nodeID string) error {
	logger := ctxlog.FromContext(ctx)

	f, err := s.load(ctx, flowID)
	if err != nil {
		return err
	}
	if f.NodeByID(nodeID) == nil {
		return &NotFoundError{Kind: "node", ID: nodeID}
	}

	nodes := f.Nodes[:0]
	for _, n := range f.Nodes {
		if n.ID != nodeID {
			nodes = append(nodes, n)
		}
	}
	f.Nodes = nodes

	removed := 0
	conns := f.Connections[:0]
	for _, c := range f.Connections {
		if c.SourceNodeID == nodeID || c.TargetNodeID == nodeID {
			removed++
			continue
		}
		conns = append(conns, c)
	}
	f.Connections = conns

	if err := s.store.SaveFlow(ctx, f); err != nil {
		return err
	}
	logger.Debug("Node deleted.", "flow_id", flowID, "node_id", nodeID, "cascaded_connections", removed)
	return nil
}

func (s *Service) load(ctx context.Context, flowID string) (*flow.Flow, error) {
	f, err := s.store.LoadFlow(ctx, flowID)
	if err != nil {
		if errors.Is(err, flowstore.ErrNotFound) {
			return nil, &NotFoundError{Kind: "flow", ID: flowID}
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) isTrigger(typeName string) bool {
	def := s.catalog.Lookup(typeName)
	return def != nil && def.Category == catalog.CategoryTrigger
}

// prepareTrigger derives the trigger's tool name from its current name and
// fills in the trigger default fields where absent.
func (s *Service) prepareTrigger(ctx context.Context, node *flow.Node) error {
	toolName, err := s.namer.ToolName(ctx, node.Name, node.ID)
	if err != nil {
		return fmt.Errorf("deriving tool name for node %q: %w", node.Name, err)
	}
	if node.Parameters == nil {
		node.Parameters = map[string]any{}
	}
	node.Parameters[flow.ParamToolName] = toolName
	if _, ok := node.Parameters[flow.ParamActive]; !ok {
		node.Parameters[flow.ParamActive] = true
	}
	if _, ok := node.Parameters[flow.ParamDescription]; !ok {
		node.Parameters[flow.ParamDescription] = ""
	}
	if _, ok := node.Parameters[flow.ParamParameters]; !ok {
		node.Parameters[flow.ParamParameters] = []any{}
	}
	return nil
}
