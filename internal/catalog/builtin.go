package catalog

import (
	"github.com/vk/flowforge/internal/schema"
)

// Reserved node type names the engine gives bespoke treatment.
const (
	// TypeWebhookTrigger emits a payload whose shape is wholly determined by
	// the trigger's declared parameter list.
	TypeWebhookTrigger = "webhook_trigger"
	// TypeHTTPRequest calls an external endpoint; its output shape is only
	// knowable once a sample response has been captured.
	TypeHTTPRequest = "http_request"
	// TypeUIComponent embeds a user-supplied interface component.
	TypeUIComponent = "ui_component"
	// TypeCodeTransform is the general-purpose transform able to repair
	// arbitrary shape mismatches.
	TypeCodeTransform = "code_transform"
	// TypeLink hands a branch off to an interface page. Connections into a
	// link node must originate from an interface-category source.
	TypeLink = "link"
)

// RegisterHooks installs the Go-side dynamic schema hooks for the builtin
// node types. Call before Validate.
func (r *Registry) RegisterHooks() {
	r.RegisterDynamic(TypeWebhookTrigger, WebhookOutputSchema)
}

// WebhookOutputSchema derives a webhook trigger's output schema from its
// declared parameter list. Each entry contributes one required property; an
// entry without a recognised type declaration contributes a string, the wire
// default for webhook fields. The result is always concrete, so webhook
// triggers never sit in the pending state.
func WebhookOutputSchema(params map[string]any) *schema.Schema {
	out := &schema.Schema{Kind: schema.KindObject, Properties: map[string]*schema.Schema{}}

	declared, _ := params["parameters"].([]any)
	for _, entry := range declared {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if name == "" {
			continue
		}
		out.Properties[name] = &schema.Schema{Kind: parameterKind(m["type"])}
		out.Required = append(out.Required, name)
	}
	return out
}

func parameterKind(v any) schema.Kind {
	t, _ := v.(string)
	switch t {
	case "number":
		return schema.KindNumber
	case "boolean":
		return schema.KindBoolean
	case "object":
		return schema.KindObject
	case "array":
		return schema.KindArray
	default:
		return schema.KindString
	}
}
