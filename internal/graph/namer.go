package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// ToolNamer derives a globally-unique tool name for a trigger node. The
// owning application guarantees uniqueness across all flows; the node id is
// passed so a rename does not collide with the node's own current name.
type ToolNamer interface {
	ToolName(ctx context.Context, base, nodeID string) (string, error)
}

// ToolNames is the default in-process ToolNamer. It slugifies the node name
// and appends a numeric suffix until the result is unused or owned by the
// requesting node.
type ToolNames struct {
	mu     sync.Mutex
	owners map[string]string // tool name -> node id
}

// NewToolNames creates an empty tool name allocator.
func NewToolNames() *ToolNames {
	return &ToolNames{owners: make(map[string]string)}
}

// ToolName implements ToolNamer.
func (t *ToolNames) ToolName(ctx context.Context, base, nodeID string) (string, error) {
	slug := Slugify(base)

	t.mu.Lock()
	defer t.mu.Unlock()

	// Release any name this node held before; a rename must not leak claims.
	for name, owner := range t.owners {
		if owner == nodeID {
			delete(t.owners, name)
		}
	}

	candidate := slug
	for i := 2; ; i++ {
		owner, taken := t.owners[candidate]
		if !taken || owner == nodeID {
			t.owners[candidate] = nodeID
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", slug, i)
	}
}

// Slugify lowercases the name and collapses every run of non-alphanumeric
// characters into a single underscore.
func Slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true // trims a leading separator run
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		return "tool"
	}
	return slug
}
