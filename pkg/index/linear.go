package index

import (
	"container/heap"
	"sync"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// Linear is a brute-force exact index: O(n) search, O(1) amortized add.
// Uses a bounded max-heap to keep the top-k nearest hits while scanning,
// generalized to operate on *vectordb.Chunk with a per-search metric
// selector instead of a single fixed distance function.
type Linear struct {
	mu        sync.Mutex
	chunks    map[string]*vectordb.Chunk
	order     []string // insertion order, for deterministic iteration
	dimension int
	built     bool
}

// NewLinear creates an empty Linear index.
func NewLinear() *Linear {
	return &Linear{chunks: make(map[string]*vectordb.Chunk)}
}

// Build replaces the index's contents with chunks.
func (l *Linear) Build(chunks []*vectordb.Chunk) error {
	const op = "index.Linear.Build"
	l.mu.Lock()
	defer l.mu.Unlock()

	newChunks := make(map[string]*vectordb.Chunk, len(chunks))
	order := make([]string, 0, len(chunks))
	dimension := 0
	if len(chunks) > 0 {
		dimension = len(chunks[0].Embedding)
	}
	for _, c := range chunks {
		if len(c.Embedding) != dimension {
			return vectordb.NewDimensionMismatch(op, dimension, len(c.Embedding))
		}
		newChunks[c.ID] = c.Clone()
		order = append(order, c.ID)
	}

	l.chunks = newChunks
	l.order = order
	l.dimension = dimension
	l.built = true
	return nil
}

// Search computes (distance, similarity) against every indexed chunk whose
// embedding length matches the query, skipping mismatched chunks rather
// than failing, and returns the k best ascending by distance.
func (l *Linear) Search(query []float32, k int, metric vectordb.Metric) ([]Hit, error) {
	const op = "index.Linear.Search"
	if len(query) == 0 {
		return nil, vectordb.NewEmptyQuery(op)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.chunks) == 0 || k <= 0 {
		return []Hit{}, nil
	}

	h := &maxHeap{}
	heap.Init(h)
	for _, id := range l.order {
		c, ok := l.chunks[id]
		if !ok || len(c.Embedding) != len(query) {
			continue
		}
		dist, sim, err := vectordb.Compute(metric, query, c.Embedding)
		if err != nil {
			return nil, err
		}
		item := heapItem{hit: Hit{Chunk: c.Clone(), Distance: dist, Similarity: sim}}
		if h.Len() < k {
			heap.Push(h, item)
		} else if dist < (*h)[0].hit.Distance {
			heap.Pop(h)
			heap.Push(h, item)
		}
	}

	results := make([]Hit, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		results[i] = heap.Pop(h).(heapItem).hit
	}
	return results, nil
}

// Add inserts or replaces chunk. Whenever the index currently holds no
// chunks — whether Add has never run, or Build(nil)/Build([]) emptied it —
// the dimension is (re)seeded from this chunk rather than compared against
// a stale value.
func (l *Linear) Add(chunk *vectordb.Chunk) error {
	const op = "index.Linear.Add"
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.chunks) == 0 {
		l.dimension = len(chunk.Embedding)
		l.built = true
	} else if len(chunk.Embedding) != l.dimension {
		return vectordb.NewDimensionMismatch(op, l.dimension, len(chunk.Embedding))
	}

	if _, exists := l.chunks[chunk.ID]; !exists {
		l.order = append(l.order, chunk.ID)
	}
	l.chunks[chunk.ID] = chunk.Clone()
	return nil
}

// Remove deletes chunkID; a no-op if absent.
func (l *Linear) Remove(chunkID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.chunks[chunkID]; !ok {
		return nil
	}
	delete(l.chunks, chunkID)
	for i, id := range l.order {
		if id == chunkID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// Lookup returns a deep copy of the chunk by id.
func (l *Linear) Lookup(chunkID string) (*vectordb.Chunk, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.chunks[chunkID]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Size returns the number of indexed chunks.
func (l *Linear) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chunks)
}

// Built reports whether Build or Add has run.
func (l *Linear) Built() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.built
}

type heapItem struct {
	hit Hit
}

// maxHeap keeps the current k-best set with the worst (largest distance)
// at the root, so a new candidate only needs comparing against [0].
type maxHeap []heapItem

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].hit.Distance > h[j].hit.Distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
