package graph

import (
	"errors"

	"github.com/vk/flowforge/internal/flowstore"
)

// Invariant violations. Each is rejected synchronously at mutation time and
// aborts the operation before any write.
var (
	// ErrNameConflict means another node in the same flow already carries
	// the requested name.
	ErrNameConflict = errors.New("node name already in use in this flow")
	// ErrInvalidTarget means the connection targets a trigger node; triggers
	// only emit.
	ErrInvalidTarget = errors.New("trigger nodes cannot be a connection target")
	// ErrSelfConnection means source and target are the same node.
	ErrSelfConnection = errors.New("node cannot connect to itself")
	// ErrCycleDetected means the edge would close a directed cycle.
	ErrCycleDetected = errors.New("connection would create a cycle")
	// ErrDuplicateConnection means an identical
	// (source, sourceHandle, target, targetHandle) edge already exists.
	ErrDuplicateConnection = errors.New("identical connection already exists")
	// ErrLinkSource means a connection into a link node originates from a
	// non-interface source.
	ErrLinkSource = errors.New("link nodes accept connections from interface nodes only")
)

// NotFoundError is re-exported for callers that only import this package.
type NotFoundError = flowstore.NotFoundError

// IsNotFound reports whether err is a missing-entity condition.
func IsNotFound(err error) bool {
	return flowstore.IsNotFound(err)
}
