package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/schema"
	"github.com/vk/flowforge/internal/validate"
)

// ErrFlowInvalid is returned by Run when validation finds errors; main maps
// it to a non-zero exit code.
var ErrFlowInvalid = errors.New("flow validation reported errors")

// Run loads the flow document, validates it against the catalog and writes
// the report to the output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	raw, err := os.ReadFile(a.config.FlowPath)
	if err != nil {
		return fmt.Errorf("reading flow document: %w", err)
	}
	f, err := flow.ParseDocument(raw)
	if err != nil {
		return err
	}
	logger.Debug("Flow document loaded.", "flow_id", f.ID, "nodes", len(f.Nodes), "connections", len(f.Connections))

	report := a.validator.ValidateFlow(ctx, f)
	if err := a.writeReport(report); err != nil {
		return err
	}

	if report.Status == validate.FlowErrors {
		return ErrFlowInvalid
	}
	return nil
}

func (a *App) writeReport(report *validate.Report) error {
	if a.config.ReportFormat == "json" {
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(a.outW, "flow %s: %s\n", report.FlowID, report.Status)
	for _, c := range report.Connections {
		fmt.Fprintf(a.outW, "  connection %s (%s -> %s): %s\n", c.ConnectionID, c.SourceNodeID, c.TargetNodeID, c.Result.Status)
		for _, issue := range c.Result.Issues {
			fmt.Fprintf(a.outW, "    [%s] %s: %s\n", issue.Severity, issue.Code, issue.Message)
		}
	}
	for _, n := range report.NodeErrors {
		fmt.Fprintf(a.outW, "  node %s: [%s] %s\n", n.NodeName, n.Code, n.Message)
	}
	for _, status := range []schema.Status{schema.StatusCompatible, schema.StatusWarning, schema.StatusError, schema.StatusUnknown} {
		if count := report.Counts[status]; count > 0 {
			fmt.Fprintf(a.outW, "  %d %s\n", count, status)
		}
	}
	return nil
}
