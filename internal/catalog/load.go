package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/fsutil"
	"github.com/vk/flowforge/internal/schema"
)

// manifestRoot is the top-level structure of a catalog file: one or more
// 'node' blocks.
type manifestRoot struct {
	Nodes []*hclNode `hcl:"node,block"`
}

// hclNode defers decoding of the block body so attributes and port blocks
// can be parsed with an explicit body schema.
type hclNode struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// nodeBodySchema describes the body of a 'node' block.
var nodeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "category", Required: true},
		{Name: "description"},
		{Name: "open_input"},
		{Name: "open_output"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

// portBody is the body of an 'input' or 'output' block.
type portBody struct {
	Type        hcl.Expression `hcl:"type"`
	Required    bool           `hcl:"required,optional"`
	Description string         `hcl:"description,optional"`
}

// LoadManifests recursively loads every .hcl catalog file under path and
// registers the definitions it finds.
func (r *Registry) LoadManifests(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading node type manifests.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		logger.Error("Failed to walk catalog directory.", "path", path, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in catalog path.", "path", path)
		return nil
	}

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse manifest %s: %w", filePath, diags)
		}
		defs, err := parseManifest(hclFile)
		if err != nil {
			return fmt.Errorf("failed to process manifest %s: %w", filePath, err)
		}
		for _, def := range defs {
			r.Register(def)
		}
		logger.Debug("Loaded manifest file.", "file", filePath, "definitions", len(defs))
	}

	logger.Info("Catalog loaded.", "definitions", r.Len())
	return nil
}

// ParseManifestBytes parses manifest source held in memory. Primarily a test
// seam; LoadManifests is the production path.
func (r *Registry) ParseManifestBytes(src []byte, filename string) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}
	defs, err := parseManifest(hclFile)
	if err != nil {
		return err
	}
	for _, def := range defs {
		r.Register(def)
	}
	return nil
}

func parseManifest(hclFile *hcl.File) ([]*Definition, error) {
	var root manifestRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, diags
	}

	defs := make([]*Definition, 0, len(root.Nodes))
	for _, n := range root.Nodes {
		def, err := parseNodeBlock(n)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseNodeBlock(n *hclNode) (*Definition, error) {
	content, diags := n.Body.Content(nodeBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	def := &Definition{Name: n.Name}

	var categoryStr string
	if diags := gohcl.DecodeExpression(content.Attributes["category"].Expr, nil, &categoryStr); diags.HasErrors() {
		return nil, diags
	}
	category, err := ParseCategory(categoryStr)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	def.Category = category

	if attr, ok := content.Attributes["description"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &def.Description); diags.HasErrors() {
			return nil, diags
		}
	}

	openInput, err := decodeOpenFlag(content.Attributes, "open_input")
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	openOutput, err := decodeOpenFlag(content.Attributes, "open_output")
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}

	input := &schema.Schema{Kind: schema.KindObject, Open: openInput}
	output := &schema.Schema{Kind: schema.KindObject, Open: openOutput}
	var haveInput, haveOutput bool

	for _, block := range content.Blocks {
		portName := block.Labels[0]
		var port portBody
		if diags := gohcl.DecodeBody(block.Body, nil, &port); diags.HasErrors() {
			return nil, diags
		}
		ctyType, typeDiags := typeexpr.TypeConstraint(port.Type)
		if typeDiags.HasErrors() {
			return nil, fmt.Errorf("node %q, %s %q: %w", n.Name, block.Type, portName, typeDiags)
		}
		portSchema := schema.FromCtyType(ctyType)

		switch block.Type {
		case "input":
			haveInput = true
			addPort(input, portName, portSchema, port.Required)
		case "output":
			haveOutput = true
			// Declared outputs are always produced.
			addPort(output, portName, portSchema, true)
		}
	}

	if haveInput || openInput {
		def.Input = input
	}
	if haveOutput || openOutput {
		def.Output = output
	}
	return def, nil
}

func addPort(obj *schema.Schema, name string, s *schema.Schema, required bool) {
	if obj.Properties == nil {
		obj.Properties = make(map[string]*schema.Schema)
	}
	obj.Properties[name] = s
	if required {
		obj.Required = append(obj.Required, name)
	}
}

func decodeOpenFlag(attrs hcl.Attributes, name string) (bool, error) {
	attr, ok := attrs[name]
	if !ok {
		return false, nil
	}
	var v bool
	if diags := gohcl.DecodeExpression(attr.Expr, nil, &v); diags.HasErrors() {
		return false, diags
	}
	return v, nil
}
