// Package flowstore defines the persistence contract for flow documents.
//
// A flow is persisted as one whole document: it is loaded in full, mutated
// in memory and written back in a single save. There is no field-level
// locking or version token; two callers mutating the same flow concurrently
// race, and the last writer's full-document save wins. Callers are expected
// to serialise operations per flow.
package flowstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/flowforge/internal/flow"
)

// ErrNotFound is returned when no document exists for the requested flow id.
var ErrNotFound = errors.New("flow not found")

// NotFoundError reports a missing entity by kind and id. It is shared by the
// services layered on the store so that "flow", "node", "connection" and
// "node type" misses all surface uniformly to the caller.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsNotFound reports whether err is a missing-entity condition, either a
// NotFoundError or the bare ErrNotFound sentinel.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, ErrNotFound)
}

// Store is the external collaborator owning flow persistence.
type Store interface {
	// LoadFlow returns the full document for the given id, or ErrNotFound.
	LoadFlow(ctx context.Context, id string) (*flow.Flow, error)
	// SaveFlow writes the full document, creating it if absent.
	SaveFlow(ctx context.Context, f *flow.Flow) error
}
