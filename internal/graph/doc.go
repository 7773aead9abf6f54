// Package graph owns all mutation of a flow's node and connection lists.
//
// Every operation loads the full document from the store, applies one
// logical change in memory while enforcing the topological invariants
// (unique names, no trigger targets, acyclicity, no duplicate edges, cascade
// deletion, link-source category), and persists the whole document back in a
// single write. A failed invariant check persists nothing, so the stored
// document never violates the invariants.
package graph
