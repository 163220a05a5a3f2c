package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
	"github.com/ShyamSundR/stackai-vector-db/pkg/catalog"
	"github.com/ShyamSundR/stackai-vector-db/pkg/embedding"
	"github.com/ShyamSundR/stackai-vector-db/pkg/query"
)

// snapshot is the on-disk shape a --seed/--out file round-trips. The core
// carries no persistence (spec.md Non-goals), so the CLI stands in a
// filesystem snapshot between invocations the way a shell pipeline would
// stand in a request/response pair for the out-of-scope HTTP surface.
type snapshot struct {
	Libraries []*vectordb.Library  `json:"libraries"`
	Documents []*vectordb.Document `json:"documents"`
	Chunks    []*vectordb.Chunk    `json:"chunks"`
	Variants  map[string]string    `json:"variants"`
}

// session bundles the composition root a single CLI invocation operates
// against: a catalog.Service for policy-checked CRUD, a query.Engine for
// indexing and search, and the optional auto-embed provider.
type session struct {
	catalog        *catalog.Catalog
	service        *catalog.Service
	engine         *query.Engine
	embedder       embedding.Provider
	defaultVariant string
}

func newSession(log vectordb.Logger, defaultVariant string) *session {
	cat := catalog.New(catalog.WithLogger(log))
	return &session{
		catalog:        cat,
		service:        catalog.NewService(cat),
		engine:         query.NewEngine(cat, query.WithLogger(log)),
		embedder:       embedding.NewCachedProvider(embedding.NewStaticProvider(), embedding.DefaultCacheSize),
		defaultVariant: defaultVariant,
	}
}

// loadSnapshot replays a seed file's entities into s, re-declaring each
// library's index variant and rebuilding it so a loaded snapshot is
// immediately searchable.
func (s *session) loadSnapshot(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, lib := range snap.Libraries {
		if _, err := s.catalog.CreateLibrary(ctx, lib.ID, lib.Name, lib.Metadata); err != nil {
			return fmt.Errorf("seed library %s: %w", lib.ID, err)
		}
	}
	for _, doc := range snap.Documents {
		if _, err := s.catalog.CreateDocument(ctx, doc.ID, doc.LibraryID, doc.Title, doc.Metadata); err != nil {
			return fmt.Errorf("seed document %s: %w", doc.ID, err)
		}
	}
	for _, chunk := range snap.Chunks {
		if _, err := s.catalog.CreateChunk(ctx, chunk.ID, chunk.DocumentID, chunk.Text, chunk.Embedding, chunk.Metadata); err != nil {
			return fmt.Errorf("seed chunk %s: %w", chunk.ID, err)
		}
	}
	for libID, variant := range snap.Variants {
		if err := s.engine.SetVariant(libID, variant); err != nil {
			return fmt.Errorf("seed variant for library %s: %w", libID, err)
		}
		chunks, err := s.catalog.ListLibraryChunks(ctx, libID)
		if err != nil {
			continue
		}
		if err := s.engine.IndexLibrary(ctx, libID, chunks, ""); err != nil {
			return fmt.Errorf("seed index for library %s: %w", libID, err)
		}
	}
	return nil
}

// saveSnapshot writes the session's full entity graph and declared
// variants to path, or to stdout when path is empty.
func (s *session) saveSnapshot(ctx context.Context, path string) error {
	libraries := s.catalog.ListLibraries(ctx)
	snap := snapshot{
		Libraries: libraries,
		Variants:  make(map[string]string),
	}
	for _, lib := range libraries {
		docs, err := s.catalog.ListLibraryDocuments(ctx, lib.ID)
		if err != nil {
			continue
		}
		snap.Documents = append(snap.Documents, docs...)
		for _, doc := range docs {
			chunks, err := s.catalog.ListDocumentChunks(ctx, doc.ID)
			if err != nil {
				continue
			}
			snap.Chunks = append(snap.Chunks, chunks...)
		}
		snap.Variants[lib.ID] = string(s.engine.GetVariant(lib.ID))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}
