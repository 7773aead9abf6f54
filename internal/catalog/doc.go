// Package catalog holds the read-only registry of node type definitions.
//
// A definition maps a node type name to its category and schema information:
// a static input/output schema parsed from an HCL manifest, optionally
// overlaid with a Go hook that computes the output schema from a node
// instance's parameters. The registry is populated once during startup, then
// validated and treated as immutable, so concurrent reads need no locking.
package catalog
