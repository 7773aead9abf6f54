// Package schema defines the structural type language spoken between flow
// nodes: a closed tagged variant over JSON shapes, inference of a schema from
// a sample value, and the compatibility check between a producer's output
// schema and a consumer's input schema.
package schema
