// Package validate runs whole-flow validation: it resolves every node's
// schema once, checks compatibility across every connection, applies the
// node-level topological rules, and aggregates the results into a single
// report the editor can render.
package validate

import (
	"context"
	"fmt"

	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
	"github.com/vk/flowforge/internal/resolve"
	"github.com/vk/flowforge/internal/schema"
	"github.com/vk/flowforge/internal/suggest"
)

// Validator composes the schema resolver and compatibility checker over a
// flow document. Validation never fails for data reasons; an incompatible
// connection is a result, not an error.
type Validator struct {
	catalog  *catalog.Registry
	resolver *resolve.Resolver
}

// New creates a Validator over the given catalog.
func New(reg *catalog.Registry) *Validator {
	return &Validator{catalog: reg, resolver: resolve.NewResolver(reg)}
}

// ValidateFlow produces the flow-wide report.
func (v *Validator) ValidateFlow(ctx context.Context, f *flow.Flow) *Report {
	logger := ctxlog.FromContext(ctx)

	// One resolution per node per pass.
	resolutions := make(map[string]resolve.Resolution, len(f.Nodes))
	for _, n := range f.Nodes {
		resolutions[n.ID] = v.resolver.Resolve(n)
	}

	report := &Report{
		FlowID:      f.ID,
		Connections: make([]ConnectionResult, 0, len(f.Connections)),
		Counts:      map[schema.Status]int{},
	}

	for _, c := range f.Connections {
		result := v.checkConnection(f, c, resolutions)
		report.Counts[result.Result.Status]++
		report.Connections = append(report.Connections, result)
	}

	report.NodeErrors = v.nodeRules(f)
	report.Status = overall(report)

	logger.Debug("Flow validated.",
		"flow_id", f.ID,
		"status", report.Status,
		"connections", len(report.Connections),
		"node_errors", len(report.NodeErrors),
	)
	return report
}

// ConnectionCheck is the result of validating one prospective or existing
// connection, with transformer suggestions attached for repairable issues.
type ConnectionCheck struct {
	Result      schema.Result        `json:"result"`
	Suggestions []suggest.Suggestion `json:"suggestions,omitempty"`
}

// ValidateConnection checks a single source/target pair and attaches
// transformer suggestions. Missing endpoints are caller errors here, unlike
// in ValidateFlow where the document is taken as-is.
func (v *Validator) ValidateConnection(f *flow.Flow, sourceID, targetID string) (ConnectionCheck, error) {
	source := f.NodeByID(sourceID)
	if source == nil {
		return ConnectionCheck{}, &flowstore.NotFoundError{Kind: "node", ID: sourceID}
	}
	target := f.NodeByID(targetID)
	if target == nil {
		return ConnectionCheck{}, &flowstore.NotFoundError{Kind: "node", ID: targetID}
	}

	result := v.checkPair(source, target, v.resolver.Resolve(source), v.resolver.Resolve(target))
	return ConnectionCheck{
		Result:      result,
		Suggestions: suggest.Suggest(result.Status, v.catalog),
	}, nil
}

func (v *Validator) checkConnection(f *flow.Flow, c *flow.Connection, resolutions map[string]resolve.Resolution) ConnectionResult {
	out := ConnectionResult{
		ConnectionID: c.ID,
		SourceNodeID: c.SourceNodeID,
		TargetNodeID: c.TargetNodeID,
	}

	source := f.NodeByID(c.SourceNodeID)
	target := f.NodeByID(c.TargetNodeID)
	if source == nil || target == nil {
		out.Result = schema.Result{
			Status: schema.StatusError,
			Issues: []schema.Issue{{
				Code:     CodeDanglingEndpoint,
				Severity: schema.SeverityError,
				Message:  fmt.Sprintf("connection %s references a node that no longer exists", c.ID),
			}},
		}
		return out
	}

	out.Result = v.checkPair(source, target, resolutions[source.ID], resolutions[target.ID])
	return out
}

// checkPair runs the generic compatibility check and applies the link-node
// constraint on top: a link target with a non-interface source is a hard
// error regardless of what the schemas say.
func (v *Validator) checkPair(source, target *flow.Node, srcRes, tgtRes resolve.Resolution) schema.Result {
	if target.Type == catalog.TypeLink {
		srcDef := v.catalog.Lookup(source.Type)
		if srcDef == nil || srcDef.Category != catalog.CategoryInterface {
			return schema.Result{
				Status: schema.StatusError,
				Issues: []schema.Issue{{
					Code:     CodeLinkSource,
					Severity: schema.SeverityError,
					Message:  fmt.Sprintf("link node %q only accepts connections from interface nodes, %q is not one", target.Name, source.Name),
				}},
			}
		}
	}
	return schema.Check(srcRes.OutputSchema, tgtRes.InputSchema)
}

// nodeRules applies the per-node topological checks that are independent of
// any particular connection.
func (v *Validator) nodeRules(f *flow.Flow) []NodeIssue {
	incoming := map[string]int{}
	for _, c := range f.Connections {
		incoming[c.TargetNodeID]++
	}

	var issues []NodeIssue
	for _, n := range f.Nodes {
		def := v.catalog.Lookup(n.Type)
		if def == nil || def.Category != catalog.CategoryTransform {
			continue
		}
		if incoming[n.ID] == 0 {
			issues = append(issues, NodeIssue{
				NodeID:   n.ID,
				NodeName: n.Name,
				Code:     CodeNoInputConnection,
				Message:  fmt.Sprintf("transform node %q has no input connection", n.Name),
			})
		}
	}
	return issues
}

func overall(r *Report) FlowStatus {
	if len(r.NodeErrors) > 0 || r.Counts[schema.StatusError] > 0 {
		return FlowErrors
	}
	if r.Counts[schema.StatusWarning] > 0 {
		return FlowWarnings
	}
	return FlowValid
}
