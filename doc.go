// Package vectordb is an in-process vector database: a three-level
// hierarchy of libraries, documents, and chunks, where each chunk carries
// an embedding and arbitrary metadata, searchable by k-nearest-neighbor
// with optional metadata filtering.
//
// The module is organized around three subsystems:
//
//   - pkg/catalog: a thread-safe, referentially-consistent store of the
//     library/document/chunk hierarchy with cascade deletion.
//   - pkg/index: pluggable k-NN indexes (linear exact scan, KD-tree) behind
//     a common build/search/add/remove contract.
//   - pkg/query: the coordinator owning per-library index instances,
//     executing over-fetch-then-filter KNN search.
//
// Supporting packages: pkg/filter evaluates the metadata predicate
// language, pkg/embedding defines the pluggable text-to-vector capability.
//
// # Quick Start
//
//	cat := catalog.New()
//	lib, _ := cat.CreateLibrary(ctx, "", "papers", nil)
//	doc, _ := cat.CreateDocument(ctx, "", lib.ID, "doc title", nil)
//	chunk, _ := cat.CreateChunk(ctx, "", doc.ID, "chunk text", []float32{0.1, 0.2}, nil)
//
//	eng := query.NewEngine(cat)
//	chunks, _ := cat.ListLibraryChunks(ctx, lib.ID)
//	eng.IndexLibrary(ctx, lib.ID, chunks, "")
//	hits, _ := eng.Search(lib.ID, query.SearchRequest{
//	    Query:  []float32{0.1, 0.2},
//	    K:      5,
//	    Metric: vectordb.MetricCosine,
//	})
//
// Persistence, authentication, multi-tenancy, and approximate indexes
// beyond the KD-tree are explicitly out of scope: this is an in-memory
// kernel meant to be wrapped by an HTTP or RPC adapter, not a database
// server in its own right.
package vectordb
