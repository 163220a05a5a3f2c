package index

import (
	"testing"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

func chunkWithEmbedding(id string, embedding []float32) *vectordb.Chunk {
	return &vectordb.Chunk{ID: id, Text: id, Embedding: embedding}
}

func TestLinearSearchBasics(t *testing.T) {
	l := NewLinear()
	chunks := []*vectordb.Chunk{
		chunkWithEmbedding("c1", []float32{0.1, 0.2, 0.3, 0.4, 0.5}),
		chunkWithEmbedding("c2", []float32{0.2, 0.3, 0.4, 0.5, 0.6}),
		chunkWithEmbedding("c3", []float32{0.8, 0.7, 0.6, 0.1, 0.2}),
	}
	if err := l.Build(chunks); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	hits, err := l.Search([]float32{0.1, 0.2, 0.3, 0.4, 0.5}, 2, vectordb.MetricCosine)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].Chunk.ID != "c1" {
		t.Errorf("hits[0].Chunk.ID = %q, want c1", hits[0].Chunk.ID)
	}
	if hits[0].Similarity < 0.999 {
		t.Errorf("hits[0].Similarity = %v, want ~1.0", hits[0].Similarity)
	}
	if hits[1].Chunk.ID != "c2" {
		t.Errorf("hits[1].Chunk.ID = %q, want c2", hits[1].Chunk.ID)
	}
	for _, h := range hits {
		if h.Chunk.ID == "c3" {
			t.Error("c3 should not appear in top-2 results")
		}
	}
}

func TestLinearSkipsDimensionMismatchedChunksInSearch(t *testing.T) {
	l := NewLinear()
	chunks := []*vectordb.Chunk{
		chunkWithEmbedding("a", []float32{1, 0, 0}),
	}
	if err := l.Build(chunks); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := l.Add(chunkWithEmbedding("b", []float32{1, 0, 0})); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// Manually smuggle a mismatched chunk past Add's own dimension check
	// by mutating the embedding after insertion, to exercise the
	// skip-rather-than-crash search path (spec.md §4.2).
	l.mu.Lock()
	l.chunks["b"].Embedding = []float32{1, 0}
	l.mu.Unlock()

	hits, err := l.Search([]float32{1, 0, 0}, 5, vectordb.MetricCosine)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1 (mismatched chunk skipped)", len(hits))
	}
	if hits[0].Chunk.ID != "a" {
		t.Errorf("hits[0].Chunk.ID = %q, want a", hits[0].Chunk.ID)
	}
}

func TestLinearEmptyQuery(t *testing.T) {
	l := NewLinear()
	_, err := l.Search(nil, 1, vectordb.MetricCosine)
	if !vectordb.IsKind(err, vectordb.KindEmptyQuery) {
		t.Errorf("Search(nil) = %v, want KindEmptyQuery", err)
	}
}

func TestLinearKLargerThanIndexed(t *testing.T) {
	l := NewLinear()
	l.Build([]*vectordb.Chunk{
		chunkWithEmbedding("a", []float32{1, 0}),
		chunkWithEmbedding("b", []float32{0, 1}),
	})
	hits, err := l.Search([]float32{1, 0}, 10, vectordb.MetricEuclidean)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("len(hits) = %d, want 2", len(hits))
	}
}

func TestLinearEmptyIndex(t *testing.T) {
	l := NewLinear()
	hits, err := l.Search([]float32{1, 0}, 5, vectordb.MetricCosine)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits) = %d, want 0", len(hits))
	}
}

func TestLinearAddRemoveLookup(t *testing.T) {
	l := NewLinear()
	c := chunkWithEmbedding("x", []float32{1, 2, 3})
	if err := l.Add(c); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if l.Size() != 1 {
		t.Errorf("Size() = %d, want 1", l.Size())
	}
	if got, ok := l.Lookup("x"); !ok || got.ID != "x" {
		t.Errorf("Lookup(x) = (%v, %v)", got, ok)
	}
	if err := l.Remove("x"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if l.Size() != 0 {
		t.Errorf("Size() after Remove = %d, want 0", l.Size())
	}
	if err := l.Remove("x"); err != nil {
		t.Errorf("Remove() on absent id should be a no-op, got %v", err)
	}
}

func TestLinearAddAfterEmptyBuildReseedsDimension(t *testing.T) {
	l := NewLinear()
	if err := l.Build(nil); err != nil {
		t.Fatalf("Build(nil) error = %v", err)
	}
	if err := l.Add(chunkWithEmbedding("a", []float32{1, 2, 3})); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if err := l.Add(chunkWithEmbedding("b", []float32{4, 5, 6})); err != nil {
		t.Fatalf("second Add() error = %v, want nil (dimension should be reseeded from the first chunk)", err)
	}
	if l.Size() != 2 {
		t.Errorf("Size() = %d, want 2", l.Size())
	}
}

func TestLinearSearchIsMonotonicAscending(t *testing.T) {
	l := NewLinear()
	l.Build([]*vectordb.Chunk{
		chunkWithEmbedding("a", []float32{0, 0}),
		chunkWithEmbedding("b", []float32{1, 0}),
		chunkWithEmbedding("c", []float32{3, 4}),
		chunkWithEmbedding("d", []float32{10, 10}),
	})
	hits, err := l.Search([]float32{0, 0}, 4, vectordb.MetricEuclidean)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not ascending by distance at index %d: %v then %v", i, hits[i-1].Distance, hits[i].Distance)
		}
	}
}
