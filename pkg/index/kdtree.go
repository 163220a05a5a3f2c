package index

import (
	"sort"
	"sync"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// kdNode is one node of the tree: a pivot chunk, the splitting axis chosen
// for this depth, and two subtrees.
type kdNode struct {
	chunk *vectordb.Chunk
	axis  int
	left  *kdNode
	right *kdNode
}

// KDTree partitions chunks by cycling through embedding axes. Add/Remove
// rebuild the whole tree from the retained chunk set rather than
// rebalancing incrementally, trading mutation cost for a tree that stays
// balanced.
type KDTree struct {
	mu        sync.Mutex
	root      *kdNode
	chunks    map[string]*vectordb.Chunk
	order     []string
	dimension int
	built     bool
}

// NewKDTree creates an empty KD-tree index.
func NewKDTree() *KDTree {
	return &KDTree{chunks: make(map[string]*vectordb.Chunk)}
}

// Build constructs the tree from chunks, replacing any prior contents.
func (t *KDTree) Build(chunks []*vectordb.Chunk) error {
	const op = "index.KDTree.Build"
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buildLocked(op, chunks)
}

func (t *KDTree) buildLocked(op string, chunks []*vectordb.Chunk) error {
	t.chunks = make(map[string]*vectordb.Chunk, len(chunks))
	t.order = make([]string, 0, len(chunks))

	if len(chunks) == 0 {
		t.root = nil
		t.dimension = 0
		t.built = true
		return nil
	}

	dimension := len(chunks[0].Embedding)
	leaves := make([]*vectordb.Chunk, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) != dimension {
			return vectordb.NewDimensionMismatch(op, dimension, len(c.Embedding))
		}
		clone := c.Clone()
		leaves[i] = clone
		t.chunks[clone.ID] = clone
		t.order = append(t.order, clone.ID)
	}

	t.dimension = dimension
	t.root = buildNode(leaves, 0, dimension)
	t.built = true
	return nil
}

// buildNode recursively selects the median along axis (depth mod
// dimension), making it the pivot; the lower half builds the left
// subtree, the upper half the right.
func buildNode(chunks []*vectordb.Chunk, depth, dimension int) *kdNode {
	if len(chunks) == 0 {
		return nil
	}
	axis := depth % dimension
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Embedding[axis] < chunks[j].Embedding[axis]
	})

	mid := len(chunks) / 2
	node := &kdNode{chunk: chunks[mid], axis: axis}
	node.left = buildNode(chunks[:mid], depth+1, dimension)
	node.right = buildNode(chunks[mid+1:], depth+1, dimension)
	return node
}

// Search walks the tree with a best-first bounded list of size k,
// descending the query-side subtree first. Under euclidean the far side is
// visited only when the splitting-plane distance doesn't already rule it
// out; under cosine and dot_product it is always visited, since the
// per-axis difference bounds neither distance (spec.md §4.2).
func (t *KDTree) Search(query []float32, k int, metric vectordb.Metric) ([]Hit, error) {
	const op = "index.KDTree.Search"
	if len(query) == 0 {
		return nil, vectordb.NewEmptyQuery(op)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.built || t.root == nil {
		return []Hit{}, nil
	}
	if len(query) != t.dimension {
		return nil, vectordb.NewDimensionMismatch(op, t.dimension, len(query))
	}
	if k > len(t.chunks) {
		k = len(t.chunks)
	}
	if k <= 0 {
		return []Hit{}, nil
	}

	s := &kdSearch{query: query, metric: metric, k: k}
	s.visit(t.root)
	return s.best, nil
}

type kdSearch struct {
	query  []float32
	metric vectordb.Metric
	k      int
	best   []Hit
}

func (s *kdSearch) visit(node *kdNode) {
	if node == nil {
		return
	}

	dist, sim, err := vectordb.Compute(s.metric, s.query, node.chunk.Embedding)
	if err == nil {
		hit := Hit{Chunk: node.chunk.Clone(), Distance: dist, Similarity: sim}
		switch {
		case len(s.best) < s.k:
			s.best = append(s.best, hit)
			sort.Slice(s.best, func(i, j int) bool { return s.best[i].Distance < s.best[j].Distance })
		case dist < s.best[len(s.best)-1].Distance:
			s.best[len(s.best)-1] = hit
			sort.Slice(s.best, func(i, j int) bool { return s.best[i].Distance < s.best[j].Distance })
		}
	}

	axis := node.axis
	diff := float64(s.query[axis]) - float64(node.chunk.Embedding[axis])

	worst := func() float64 {
		if len(s.best) < s.k {
			return 0
		}
		return s.best[len(s.best)-1].Distance
	}

	// |diff| is a lower bound on euclidean distance only; under any other
	// metric the far side is always visited.
	prune := s.metric == vectordb.MetricEuclidean

	if diff <= 0 {
		s.visit(node.left)
		if !prune || len(s.best) < s.k || absf(diff) < worst() {
			s.visit(node.right)
		}
	} else {
		s.visit(node.right)
		if !prune || len(s.best) < s.k || absf(diff) < worst() {
			s.visit(node.left)
		}
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Add inserts chunk (or replaces it by id) and rebuilds the whole tree.
func (t *KDTree) Add(chunk *vectordb.Chunk) error {
	const op = "index.KDTree.Add"
	t.mu.Lock()
	defer t.mu.Unlock()

	all := make([]*vectordb.Chunk, 0, len(t.chunks)+1)
	for _, id := range t.order {
		if id == chunk.ID {
			continue
		}
		all = append(all, t.chunks[id])
	}
	all = append(all, chunk)
	return t.buildLocked(op, all)
}

// Remove deletes chunkID and rebuilds the whole tree; a no-op if absent.
func (t *KDTree) Remove(chunkID string) error {
	const op = "index.KDTree.Remove"
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.chunks[chunkID]; !ok {
		return nil
	}
	all := make([]*vectordb.Chunk, 0, len(t.chunks)-1)
	for _, id := range t.order {
		if id != chunkID {
			all = append(all, t.chunks[id])
		}
	}
	return t.buildLocked(op, all)
}

// Lookup returns a deep copy of the chunk by id.
func (t *KDTree) Lookup(chunkID string) (*vectordb.Chunk, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.chunks[chunkID]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Size returns the number of indexed chunks.
func (t *KDTree) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.chunks)
}

// Built reports whether Build has run.
func (t *KDTree) Built() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.built
}
