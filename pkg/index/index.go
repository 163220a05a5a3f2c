// Package index holds the pluggable nearest-neighbor index variants
// (Linear, KDTree) that share one contract: build, search, add, remove,
// lookup, size, built.
package index

import (
	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// Hit is one ranked search result.
type Hit struct {
	Chunk      *vectordb.Chunk
	Distance   float64
	Similarity float64
}

// Index is the common contract every variant implements.
type Index interface {
	// Build replaces the index's contents with chunks, recording the
	// embedding dimension from the first chunk. Chunks of a different
	// dimension are rejected with KindDimensionMismatch.
	Build(chunks []*vectordb.Chunk) error
	// Search returns up to k hits ordered ascending by distance under metric.
	Search(query []float32, k int, metric vectordb.Metric) ([]Hit, error)
	// Add inserts or replaces a single chunk.
	Add(chunk *vectordb.Chunk) error
	// Remove deletes a chunk by id; a no-op if absent.
	Remove(chunkID string) error
	// Lookup returns a chunk by id, or false if absent.
	Lookup(chunkID string) (*vectordb.Chunk, bool)
	// Size returns the number of indexed chunks.
	Size() int
	// Built reports whether Build has ever run (for Linear, an Add into an
	// empty index also counts).
	Built() bool
}

// Variant names the known index constructors (spec's variant registry).
type Variant string

const (
	VariantLinear Variant = "brute_force"
	VariantKDTree Variant = "kdtree"
)

// DefaultVariant is used when a library has no declared variant.
const DefaultVariant = VariantLinear

// New constructs an empty index of the named variant. Unknown names yield
// KindUnknownVariant.
func New(variant Variant) (Index, error) {
	switch variant {
	case VariantLinear:
		return NewLinear(), nil
	case VariantKDTree:
		return NewKDTree(), nil
	default:
		return nil, vectordb.NewUnknownVariant("index.New", string(variant))
	}
}

// ValidVariant reports whether name is a known index variant.
func ValidVariant(name string) bool {
	switch Variant(name) {
	case VariantLinear, VariantKDTree:
		return true
	default:
		return false
	}
}
