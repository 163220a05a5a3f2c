// Package query implements the coordinator that owns per-library index
// instances, executes KNN search with over-fetch + metadata-filter
// refinement, and dispatches to the index variant registry. Grounded on
// _examples/original_source/app/services/vector_index_service.py's
// VectorIndexService.
package query

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
	"github.com/ShyamSundR/stackai-vector-db/pkg/catalog"
	"github.com/ShyamSundR/stackai-vector-db/pkg/filter"
	"github.com/ShyamSundR/stackai-vector-db/pkg/index"
)

// overfetchFactor is the cheap heuristic multiplier applied to k when a
// filter is present (spec.md §4.4).
const overfetchFactor = 3

// binding holds one library's declared variant and (lazily built) instance.
type binding struct {
	variant index.Variant
	active  index.Index
}

// Engine owns a mapping from library id to index binding. Its own guard
// protects that mapping; each index instance self-guards its state
// (spec.md §5).
type Engine struct {
	mu       sync.Mutex
	bindings map[string]*binding

	catalog *catalog.Catalog
	filter  *filter.Evaluator
	log     vectordb.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger. The default is vectordb.NopLogger().
func WithLogger(l vectordb.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithFilterEvaluator overrides the default metadata predicate evaluator.
func WithFilterEvaluator(f *filter.Evaluator) Option {
	return func(e *Engine) { e.filter = f }
}

// NewEngine creates a query engine backed by c for reads during RebuildAll.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		bindings: make(map[string]*binding),
		catalog:  c,
		filter:   filter.New(),
		log:      vectordb.NopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetVariant validates variantName against the known registry, discards
// any existing index instance for libraryID, and declares the new variant
// without rebuilding.
func (e *Engine) SetVariant(libraryID, variantName string) error {
	const op = "query.Engine.SetVariant"
	if !index.ValidVariant(variantName) {
		err := vectordb.NewUnknownVariant(op, variantName)
		vectordb.LogError(e.log, err)
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bindings[libraryID] = &binding{variant: index.Variant(variantName)}
	return nil
}

// GetVariant returns the declared variant for libraryID, or the system
// default if none has been declared.
func (e *Engine) GetVariant(libraryID string) index.Variant {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bindings[libraryID]
	if !ok {
		return index.DefaultVariant
	}
	return b.variant
}

// IndexLibrary constructs a new index of the requested variant (or the
// library's declared variant if variantOverride is empty), builds it with
// chunks, and atomically installs it, replacing any previous instance.
func (e *Engine) IndexLibrary(_ context.Context, libraryID string, chunks []*vectordb.Chunk, variantOverride string) error {
	const op = "query.Engine.IndexLibrary"

	e.mu.Lock()
	variant := e.declaredVariantLocked(libraryID)
	e.mu.Unlock()
	if variantOverride != "" {
		if !index.ValidVariant(variantOverride) {
			return vectordb.NewUnknownVariant(op, variantOverride)
		}
		variant = index.Variant(variantOverride)
	}

	idx, err := index.New(variant)
	if err != nil {
		return err
	}
	if err := idx.Build(chunks); err != nil {
		return err
	}

	e.mu.Lock()
	e.bindings[libraryID] = &binding{variant: variant, active: idx}
	e.mu.Unlock()

	e.log.Debug("library indexed", "library_id", libraryID, "variant", variant, "chunks", len(chunks))
	return nil
}

func (e *Engine) declaredVariantLocked(libraryID string) index.Variant {
	if b, ok := e.bindings[libraryID]; ok {
		return b.variant
	}
	return index.DefaultVariant
}

// AddChunkToIndex delegates to the library's active index, lazily creating
// one of the declared variant if none exists yet.
func (e *Engine) AddChunkToIndex(libraryID string, chunk *vectordb.Chunk) error {
	e.mu.Lock()
	b, ok := e.bindings[libraryID]
	if !ok {
		b = &binding{variant: index.DefaultVariant}
		e.bindings[libraryID] = b
	}
	if b.active == nil {
		idx, err := index.New(b.variant)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		if err := idx.Build(nil); err != nil {
			e.mu.Unlock()
			return err
		}
		b.active = idx
	}
	active := b.active
	e.mu.Unlock()

	return active.Add(chunk)
}

// RemoveChunkFromIndex delegates to the library's active index; a no-op
// if no active index exists.
func (e *Engine) RemoveChunkFromIndex(libraryID, chunkID string) error {
	e.mu.Lock()
	b, ok := e.bindings[libraryID]
	e.mu.Unlock()
	if !ok || b.active == nil {
		return nil
	}
	return b.active.Remove(chunkID)
}

// SearchRequest bundles a search call's options (spec.md §6 "Search
// request body").
type SearchRequest struct {
	Query    []float32
	K        int
	Metric   vectordb.Metric
	Filter   filter.Predicate
}

// Search performs over-fetch + metadata-filter refinement per spec.md
// §4.4: fetch 3k candidates when a filter is set (else k), walk them in
// ascending-distance order keeping filter matches, and stop once k have
// been kept. Returns an empty slice (not an error) if no active index
// exists for libraryID.
func (e *Engine) Search(libraryID string, req SearchRequest) ([]index.Hit, error) {
	e.mu.Lock()
	b, ok := e.bindings[libraryID]
	e.mu.Unlock()
	if !ok || b.active == nil {
		return []index.Hit{}, nil
	}

	fetchK := req.K
	if req.Filter != nil {
		fetchK = req.K * overfetchFactor
	}

	hits, err := b.active.Search(req.Query, fetchK, req.Metric)
	if err != nil {
		return nil, err
	}

	if req.Filter == nil {
		if len(hits) > req.K {
			hits = hits[:req.K]
		}
		return hits, nil
	}

	kept := make([]index.Hit, 0, req.K)
	for _, h := range hits {
		if e.filter.Match(h.Chunk.Metadata, req.Filter) {
			kept = append(kept, h)
			if len(kept) >= req.K {
				break
			}
		}
	}
	return kept, nil
}

// RebuildAll rebuilds every library's active index (where one already
// exists) from the current catalog contents, concurrently, tolerating
// individual library failures rather than aborting the whole batch —
// grounded on the parallel-fan-out-with-graceful-degradation shape in
// _examples/Aman-CERP-amanmcp/pkg/searcher/fusion.go's hybridSearch.
func (e *Engine) RebuildAll(ctx context.Context) error {
	e.mu.Lock()
	libraryIDs := make([]string, 0, len(e.bindings))
	for id, b := range e.bindings {
		if b.active != nil {
			libraryIDs = append(libraryIDs, id)
		}
	}
	e.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, libraryID := range libraryIDs {
		libraryID := libraryID
		g.Go(func() error {
			chunks, err := e.catalog.ListLibraryChunks(gctx, libraryID)
			if err != nil {
				e.log.Warn("skipping rebuild for vanished library", "library_id", libraryID, "err", err)
				return nil
			}
			if err := e.IndexLibrary(gctx, libraryID, chunks, ""); err != nil {
				e.log.Warn("rebuild failed", "library_id", libraryID, "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}
