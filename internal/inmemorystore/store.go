// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the flowstore.Store interface. It is suitable for
// development, testing, or any scenario where flow documents do not need to
// survive the process.
package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/flowforge/internal/flow"
	"github.com/vk/flowforge/internal/flowstore"
)

// Store keeps whole flow documents keyed by id behind a single RWMutex.
// Documents are deep-copied on both load and save so callers can never alias
// stored state; mutation only becomes visible through an explicit SaveFlow,
// preserving the whole-document write semantics of the contract.
type Store struct {
	mu    sync.RWMutex
	flows map[string]*flow.Flow
}

// New creates an empty in-memory flow store.
func New() *Store {
	return &Store{flows: make(map[string]*flow.Flow)}
}

// Seed inserts a document directly, bypassing copy-on-save. Intended for
// wiring up fixtures and the CLI's file-seeded session.
func (s *Store) Seed(f *flow.Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[f.ID] = f.Clone()
}

// LoadFlow implements flowstore.Store.
func (s *Store) LoadFlow(ctx context.Context, id string) (*flow.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.flows[id]
	if !ok {
		return nil, flowstore.ErrNotFound
	}
	return f.Clone(), nil
}

// SaveFlow implements flowstore.Store. The incoming document replaces the
// stored one wholesale; a concurrently-lost update is silently discarded,
// which is the documented last-writer-wins behaviour of the contract.
func (s *Store) SaveFlow(ctx context.Context, f *flow.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[f.ID] = f.Clone()
	return nil
}

var _ flowstore.Store = (*Store)(nil)
