// Package probe performs the live test of an external-call node: it fires
// one real request at the configured endpoint, captures the response, infers
// its schema and stores the result on the node instance.
//
// A failed probe of a third-party endpoint is an expected, recoverable
// outcome the user needs to see. Network errors, timeouts and non-JSON
// bodies are therefore returned inside the Result, never as Go errors;
// errors are reserved for missing entities and bad input.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
	"github.com/vk/flowforge/internal/schema"
)

// ErrWrongNodeType is returned when the probed node is not an external-call
// node.
var ErrWrongNodeType = errors.New("node is not an external call node")

// DefaultTimeout bounds a probe when the caller does not supply one.
const DefaultTimeout = 10 * time.Second

// Result is the structured outcome of one probe.
type Result struct {
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	StatusCode int            `json:"statusCode,omitempty"`
	Response   any            `json:"response,omitempty"`
	Schema     *schema.Schema `json:"schema,omitempty"`
}

// Prober executes external-call tests against stored flows.
type Prober struct {
	store  flowstore.Store
	client *resty.Client
}

// New creates a Prober with its own HTTP client.
func New(store flowstore.Store) *Prober {
	return &Prober{store: store, client: resty.New()}
}

// Close releases the underlying HTTP client.
func (p *Prober) Close() error {
	return p.client.Close()
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// TestCall probes the external endpoint configured on the node. Template
// placeholders of the form {{name}} in the URL, body and header values are
// substituted from mocks first, then from the node's own string parameters;
// any placeholder left unresolved rejects the call before network I/O.
//
// On success the inferred schema is stored on the node under the
// output-schema parameter and the flow is persisted, so the node's
// resolution state moves to defined.
func (p *Prober) TestCall(ctx context.Context, flowID, nodeID string, mocks map[string]string, timeout time.Duration) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	f, err := p.store.LoadFlow(ctx, flowID)
	if err != nil {
		if errors.Is(err, flowstore.ErrNotFound) {
			return Result{}, &flowstore.NotFoundError{Kind: "flow", ID: flowID}
		}
		return Result{}, err
	}
	node := f.NodeByID(nodeID)
	if node == nil {
		return Result{}, &flowstore.NotFoundError{Kind: "node", ID: nodeID}
	}
	if node.Type != catalog.TypeHTTPRequest {
		return Result{}, fmt.Errorf("testing node %q of type %q: %w", node.Name, node.Type, ErrWrongNodeType)
	}

	call, err := buildCall(node, mocks)
	if err != nil {
		return Result{}, err
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := p.client.R().SetContext(reqCtx)
	for name, value := range call.headers {
		req.SetHeader(name, value)
	}
	if call.body != "" {
		req.SetBody(call.body)
	}

	res, err := req.Execute(call.method, call.url)
	if err != nil {
		if reqCtx.Err() != nil {
			logger.Debug("Probe timed out.", "flow_id", flowID, "node_id", nodeID, "timeout", timeout)
			return Result{Error: fmt.Sprintf("request timed out after %s", timeout)}, nil
		}
		return Result{Error: fmt.Sprintf("request failed: %v", err)}, nil
	}

	var payload any
	if jsonErr := json.Unmarshal(res.Bytes(), &payload); jsonErr != nil {
		return Result{
			StatusCode: res.StatusCode(),
			Error:      "response body is not valid JSON",
		}, nil
	}

	inferred := schema.Infer(payload)
	if node.Parameters == nil {
		node.Parameters = map[string]any{}
	}
	node.Parameters[flow.ParamOutputSchema] = inferred
	if err := p.store.SaveFlow(ctx, f); err != nil {
		return Result{}, err
	}

	logger.Debug("Probe succeeded.", "flow_id", flowID, "node_id", nodeID, "status_code", res.StatusCode())
	return Result{
		Success:    true,
		StatusCode: res.StatusCode(),
		Response:   payload,
		Schema:     inferred,
	}, nil
}

type callSpec struct {
	method  string
	url     string
	body    string
	headers map[string]string
}

// buildCall assembles the request from the node's parameters and the mock
// values, rejecting missing URLs and unresolved placeholders up front.
func buildCall(node *flow.Node, mocks map[string]string) (callSpec, error) {
	rawURL, _ := node.Parameters["url"].(string)
	if rawURL == "" {
		return callSpec{}, fmt.Errorf("node %q has no url parameter", node.Name)
	}

	values := map[string]string{}
	for name, v := range node.Parameters {
		if s, ok := v.(string); ok {
			values[name] = s
		}
	}
	for name, v := range mocks {
		values[name] = v
	}

	call := callSpec{headers: map[string]string{}}

	call.url = substitute(rawURL, values)
	if unresolved := placeholderPattern.FindString(call.url); unresolved != "" {
		return callSpec{}, fmt.Errorf("url placeholder %s has no value", unresolved)
	}

	call.method = "GET"
	if m, ok := node.Parameters["method"].(string); ok && m != "" {
		call.method = strings.ToUpper(m)
	}

	if body, ok := node.Parameters["body"].(string); ok && body != "" {
		call.body = substitute(body, values)
		if unresolved := placeholderPattern.FindString(call.body); unresolved != "" {
			return callSpec{}, fmt.Errorf("body placeholder %s has no value", unresolved)
		}
	}

	if headers, ok := node.Parameters["headers"].(map[string]any); ok {
		for name, v := range headers {
			value, _ := v.(string)
			value = substitute(value, values)
			if unresolved := placeholderPattern.FindString(value); unresolved != "" {
				return callSpec{}, fmt.Errorf("header %q placeholder %s has no value", name, unresolved)
			}
			call.headers[name] = value
		}
	}
	return call, nil
}

func substitute(input string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}
