package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
	"github.com/vk/flowforge/internal/schema"
)

// ErrSampleRequired is returned when a sample-based resolution is requested
// without a sample payload.
var ErrSampleRequired = errors.New("sample payload required")

// Service exposes the schema operations of the editing surface: reading a
// node's resolved schemas, reading a type's static schemas, and resolving a
// node's output schema from a user-captured sample.
type Service struct {
	store    flowstore.Store
	catalog  *catalog.Registry
	resolver *Resolver
}

// NewService wires the schema service.
func NewService(store flowstore.Store, reg *catalog.Registry) *Service {
	return &Service{store: store, catalog: reg, resolver: NewResolver(reg)}
}

// Resolver exposes the underlying per-node resolver for composition with
// the validator.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// NodeSchema resolves the schemas of one node in a stored flow.
func (s *Service) NodeSchema(ctx context.Context, flowID, nodeID string) (Resolution, error) {
	node, _, err := s.loadNode(ctx, flowID, nodeID)
	if err != nil {
		return Resolution{}, err
	}
	return s.resolver.Resolve(node), nil
}

// TypeSchema returns the static schema information of a node type. Unlike
// per-node resolution, asking for a type that does not exist is a caller
// error.
func (s *Service) TypeSchema(typeName string) (*catalog.Definition, error) {
	def := s.catalog.Lookup(typeName)
	if def == nil {
		return nil, &flowstore.NotFoundError{Kind: "node type", ID: typeName}
	}
	return def, nil
}

// ResolveFromSample infers a schema from a raw JSON sample, stores it on the
// node under the output-schema parameter, persists the flow and returns the
// node's new resolution.
//
// A schema stored here deliberately survives later parameter edits: deciding
// which parameters invalidate a captured sample is knowledge of the node
// type, which this core consumes read-only. The next sample overwrites it.
func (s *Service) ResolveFromSample(ctx context.Context, flowID, nodeID string, sample []byte) (Resolution, error) {
	logger := ctxlog.FromContext(ctx)

	if len(sample) == 0 {
		return Resolution{}, ErrSampleRequired
	}
	inferred, err := schema.InferJSON(sample)
	if err != nil {
		return Resolution{}, err
	}

	node, f, err := s.loadNode(ctx, flowID, nodeID)
	if err != nil {
		return Resolution{}, err
	}

	if node.Parameters == nil {
		node.Parameters = map[string]any{}
	}
	node.Parameters[flow.ParamOutputSchema] = inferred
	if err := s.store.SaveFlow(ctx, f); err != nil {
		return Resolution{}, err
	}

	logger.Debug("Schema resolved from sample.", "flow_id", flowID, "node_id", nodeID, "kind", inferred.Kind)
	return s.resolver.Resolve(node), nil
}

func (s *Service) loadNode(ctx context.Context, flowID, nodeID string) (*flow.Node, *flow.Flow, error) {
	f, err := s.store.LoadFlow(ctx, flowID)
	if err != nil {
		if errors.Is(err, flowstore.ErrNotFound) {
			return nil, nil, &flowstore.NotFoundError{Kind: "flow", ID: flowID}
		}
		return nil, nil, fmt.Errorf("loading flow %s: %w", flowID, err)
	}
	node := f.NodeByID(nodeID)
	if node == nil {
		return nil, nil, &flowstore.NotFoundError{Kind: "node", ID: nodeID}
	}
	return node, f, nil
}
