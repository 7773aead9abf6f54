package catalog

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/flowforge/internal/schema"
)

// Category governs the topological rules a node type is subject to.
type Category string

const (
	CategoryTrigger   Category = "trigger"
	CategoryInterface Category = "interface"
	CategoryAction    Category = "action"
	CategoryTransform Category = "transform"
	CategoryReturn    Category = "return"
)

// ParseCategory validates a category string from a manifest.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryTrigger, CategoryInterface, CategoryAction, CategoryTransform, CategoryReturn:
		return c, nil
	default:
		return "", fmt.Errorf("unknown node category %q", s)
	}
}

// DynamicSchemaFunc computes a node type's output schema from one instance's
// parameter bag. A nil result means the parameters do not determine a shape.
type DynamicSchemaFunc func(params map[string]any) *schema.Schema

// Definition describes one node type. Input and Output are the static
// schemas from the manifest; DynamicOutput, when set, takes precedence over
// the static output.
type Definition struct {
	Name        string
	Category    Category
	Description string

	Input  *schema.Schema
	Output *schema.Schema

	DynamicOutput DynamicSchemaFunc
}

// Registry is the full catalog of known node types for one application
// instance. It must be fully populated and validated before use; afterwards
// it is read-only and safe for concurrent lookups.
type Registry struct {
	definitions map[string]*Definition
	dynamic     map[string]DynamicSchemaFunc
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
		dynamic:     make(map[string]DynamicSchemaFunc),
	}
}

// Register adds a node type definition. Double registration is a programmer
// error: two manifests claiming the same type name cannot both be right.
func (r *Registry) Register(def *Definition) {
	if _, exists := r.definitions[def.Name]; exists {
		panic(fmt.Sprintf("node type %q already registered", def.Name))
	}
	slog.Debug("Registering node type definition.", "type", def.Name, "category", def.Category)
	r.definitions[def.Name] = def
}

// RegisterDynamic attaches a Go hook computing the output schema for the
// named type from instance parameters. The hook is bound to its definition
// during Validate.
func (r *Registry) RegisterDynamic(typeName string, fn DynamicSchemaFunc) {
	if _, exists := r.dynamic[typeName]; exists {
		panic(fmt.Sprintf("dynamic schema hook for %q already registered", typeName))
	}
	slog.Debug("Registering dynamic schema hook.", "type", typeName)
	r.dynamic[typeName] = fn
}

// Lookup returns the definition for a type name, or nil if the type is not
// in the catalog. An absent type is a valid, uninformative answer, never an
// error: flows may reference deprecated or placeholder types.
func (r *Registry) Lookup(typeName string) *Definition {
	return r.definitions[typeName]
}

// Transforms returns every transform-category definition, sorted by name.
func (r *Registry) Transforms() []*Definition {
	var out []*Definition
	for _, def := range r.definitions {
		if def.Category == CategoryTransform {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate cross-checks the Go hooks against the loaded manifests and binds
// each hook to its definition. Every dynamic hook must have a manifest, so a
// mismatch between code and catalog files surfaces at startup instead of at
// resolution time.
func (r *Registry) Validate() error {
	for typeName, fn := range r.dynamic {
		def, ok := r.definitions[typeName]
		if !ok {
			return fmt.Errorf("dynamic schema hook registered for %q, but no manifest defines that type", typeName)
		}
		def.DynamicOutput = fn
	}
	return nil
}

// Len reports the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.definitions)
}
