// Package catalog holds the in-memory library/document/chunk hierarchy.
//
// Catalog is the data-model-only layer: it enforces id uniqueness, parent
// existence, and cascade deletion, mirroring
// _examples/original_source/app/repositories/library_repository.py. It does
// NOT enforce business policy (name casing, whitespace, uniqueness across
// siblings) — that belongs to Service, which wraps a Catalog the way the
// original's *_service.py files wrap the repository.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// Option configures a Catalog at construction time.
type Option func(*Catalog)

// WithLogger attaches a logger. The default is vectordb.NopLogger().
func WithLogger(l vectordb.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// Catalog is a thread-safe in-memory store for the three-level hierarchy.
// A single non-reentrant sync.Mutex guards all state; public methods take
// the lock and delegate to unexported *Locked helpers that assume it is
// already held, which is how this module expresses the original's
// threading.RLock-based nested-call pattern without a real reentrant lock.
type Catalog struct {
	mu  sync.Mutex
	log vectordb.Logger

	libraries map[string]*vectordb.Library
	documents map[string]*vectordb.Document
	chunks    map[string]*vectordb.Chunk

	libraryDocuments map[string]map[string]struct{}
	documentChunks   map[string]map[string]struct{}
	documentLibrary  map[string]string
	chunkDocument    map[string]string
}

// New creates an empty Catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		log:              vectordb.NopLogger(),
		libraries:        make(map[string]*vectordb.Library),
		documents:        make(map[string]*vectordb.Document),
		chunks:           make(map[string]*vectordb.Chunk),
		libraryDocuments: make(map[string]map[string]struct{}),
		documentChunks:   make(map[string]map[string]struct{}),
		documentLibrary:  make(map[string]string),
		chunkDocument:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats summarizes the catalog's current size.
type Stats struct {
	Libraries int
	Documents int
	Chunks    int
}

// Stats returns a snapshot of entity counts.
func (c *Catalog) Stats(_ context.Context) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Libraries: len(c.libraries),
		Documents: len(c.documents),
		Chunks:    len(c.chunks),
	}
}

// --- Library ---

// CreateLibrary stores a new library. If id is empty, one is generated.
// Reusing an id already in use is a KindAlreadyExists error.
func (c *Catalog) CreateLibrary(_ context.Context, id, name string, metadata vectordb.Metadata) (*vectordb.Library, error) {
	const op = "catalog.CreateLibrary"
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := c.libraries[id]; exists {
		err := vectordb.NewAlreadyExists(op, id)
		vectordb.LogError(c.log, err)
		return nil, err
	}

	lib := &vectordb.Library{
		ID:        id,
		Name:      name,
		Metadata:  metadata.Clone(),
		CreatedAt: time.Now().UTC(),
	}
	c.libraries[id] = lib
	c.libraryDocuments[id] = make(map[string]struct{})
	c.log.Debug("library created", "id", id, "name", name)
	return lib.Clone(), nil
}

// GetLibrary returns a deep copy of the library, or KindNotFound.
func (c *Catalog) GetLibrary(_ context.Context, id string) (*vectordb.Library, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLibraryLocked(id)
}

func (c *Catalog) getLibraryLocked(id string) (*vectordb.Library, error) {
	lib, ok := c.libraries[id]
	if !ok {
		return nil, vectordb.NewNotFound("catalog.GetLibrary", id)
	}
	return lib.Clone(), nil
}

// ListLibraries returns deep copies of every library.
func (c *Catalog) ListLibraries(_ context.Context) []*vectordb.Library {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*vectordb.Library, 0, len(c.libraries))
	for _, lib := range c.libraries {
		out = append(out, lib.Clone())
	}
	return out
}

// UpdateLibrary replaces name and/or metadata. Passing nil metadata leaves
// it unchanged; pass an empty non-nil map to clear it.
func (c *Catalog) UpdateLibrary(_ context.Context, id string, name *string, metadata vectordb.Metadata) (*vectordb.Library, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lib, ok := c.libraries[id]
	if !ok {
		return nil, vectordb.NewNotFound("catalog.UpdateLibrary", id)
	}
	if name != nil {
		lib.Name = *name
	}
	if metadata != nil {
		lib.Metadata = metadata.Clone()
	}
	return lib.Clone(), nil
}

// DeleteLibrary removes a library and cascades to its documents and chunks.
// Deleting an absent id is reported as KindNotFound.
func (c *Catalog) DeleteLibrary(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.libraries[id]; !ok {
		err := vectordb.NewNotFound("catalog.DeleteLibrary", id)
		vectordb.LogError(c.log, err)
		return err
	}

	docIDs := make([]string, 0, len(c.libraryDocuments[id]))
	for docID := range c.libraryDocuments[id] {
		docIDs = append(docIDs, docID)
	}
	for _, docID := range docIDs {
		c.deleteDocumentLocked(docID)
	}

	delete(c.libraries, id)
	delete(c.libraryDocuments, id)
	c.log.Debug("library deleted", "id", id, "cascaded_documents", len(docIDs))
	return nil
}

// --- Document ---

// CreateDocument stores a new document under libraryID.
func (c *Catalog) CreateDocument(_ context.Context, id, libraryID, title string, metadata vectordb.Metadata) (*vectordb.Document, error) {
	const op = "catalog.CreateDocument"
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.libraries[libraryID]; !ok {
		err := vectordb.NewParentMissing(op, libraryID)
		vectordb.LogError(c.log, err)
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := c.documents[id]; exists {
		err := vectordb.NewAlreadyExists(op, id)
		vectordb.LogError(c.log, err)
		return nil, err
	}

	now := time.Now().UTC()
	doc := &vectordb.Document{
		ID:        id,
		LibraryID: libraryID,
		Title:     title,
		Metadata:  metadata.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.documents[id] = doc
	c.documentChunks[id] = make(map[string]struct{})
	c.documentLibrary[id] = libraryID
	c.libraryDocuments[libraryID][id] = struct{}{}
	c.log.Debug("document created", "id", id, "library_id", libraryID)
	return doc.Clone(), nil
}

// GetDocument returns a deep copy of the document, or KindNotFound.
func (c *Catalog) GetDocument(_ context.Context, id string) (*vectordb.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.documents[id]
	if !ok {
		return nil, vectordb.NewNotFound("catalog.GetDocument", id)
	}
	return doc.Clone(), nil
}

// ListLibraryDocuments returns deep copies of every document in libraryID.
// An unknown libraryID yields an empty slice and KindParentMissing.
func (c *Catalog) ListLibraryDocuments(_ context.Context, libraryID string) ([]*vectordb.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, ok := c.libraryDocuments[libraryID]
	if !ok {
		return nil, vectordb.NewParentMissing("catalog.ListLibraryDocuments", libraryID)
	}
	out := make([]*vectordb.Document, 0, len(ids))
	for docID := range ids {
		out = append(out, c.documents[docID].Clone())
	}
	return out, nil
}

// UpdateDocument replaces title and/or metadata.
func (c *Catalog) UpdateDocument(_ context.Context, id string, title *string, metadata vectordb.Metadata) (*vectordb.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.documents[id]
	if !ok {
		return nil, vectordb.NewNotFound("catalog.UpdateDocument", id)
	}
	if title != nil {
		doc.Title = *title
	}
	if metadata != nil {
		doc.Metadata = metadata.Clone()
	}
	doc.UpdatedAt = time.Now().UTC()
	return doc.Clone(), nil
}

// DeleteDocument removes a document and cascades to its chunks.
func (c *Catalog) DeleteDocument(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.documents[id]; !ok {
		return vectordb.NewNotFound("catalog.DeleteDocument", id)
	}
	c.deleteDocumentLocked(id)
	return nil
}

// deleteDocumentLocked assumes c.mu is already held.
func (c *Catalog) deleteDocumentLocked(id string) {
	chunkIDs := make([]string, 0, len(c.documentChunks[id]))
	for chunkID := range c.documentChunks[id] {
		chunkIDs = append(chunkIDs, chunkID)
	}
	for _, chunkID := range chunkIDs {
		c.deleteChunkLocked(chunkID)
	}

	if libID, ok := c.documentLibrary[id]; ok {
		delete(c.libraryDocuments[libID], id)
	}
	delete(c.documents, id)
	delete(c.documentChunks, id)
	delete(c.documentLibrary, id)
}

// --- Chunk ---

// CreateChunk stores a new chunk under documentID.
func (c *Catalog) CreateChunk(_ context.Context, id, documentID, text string, embedding []float32, metadata vectordb.Metadata) (*vectordb.Chunk, error) {
	const op = "catalog.CreateChunk"
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.documents[documentID]; !ok {
		err := vectordb.NewParentMissing(op, documentID)
		vectordb.LogError(c.log, err)
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := c.chunks[id]; exists {
		err := vectordb.NewAlreadyExists(op, id)
		vectordb.LogError(c.log, err)
		return nil, err
	}

	var emb []float32
	if embedding != nil {
		emb = make([]float32, len(embedding))
		copy(emb, embedding)
	}

	now := time.Now().UTC()
	chunk := &vectordb.Chunk{
		ID:         id,
		DocumentID: documentID,
		Text:       text,
		Embedding:  emb,
		Metadata:   metadata.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.chunks[id] = chunk
	c.documentChunks[documentID][id] = struct{}{}
	c.chunkDocument[id] = documentID
	c.log.Debug("chunk created", "id", id, "document_id", documentID)
	return chunk.Clone(), nil
}

// GetChunk returns a deep copy of the chunk, or KindNotFound.
func (c *Catalog) GetChunk(_ context.Context, id string) (*vectordb.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chunk, ok := c.chunks[id]
	if !ok {
		return nil, vectordb.NewNotFound("catalog.GetChunk", id)
	}
	return chunk.Clone(), nil
}

// ListDocumentChunks returns deep copies of every chunk in documentID.
func (c *Catalog) ListDocumentChunks(_ context.Context, documentID string) ([]*vectordb.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listDocumentChunksLocked(documentID)
}

func (c *Catalog) listDocumentChunksLocked(documentID string) ([]*vectordb.Chunk, error) {
	ids, ok := c.documentChunks[documentID]
	if !ok {
		return nil, vectordb.NewParentMissing("catalog.ListDocumentChunks", documentID)
	}
	out := make([]*vectordb.Chunk, 0, len(ids))
	for chunkID := range ids {
		out = append(out, c.chunks[chunkID].Clone())
	}
	return out, nil
}

// ListLibraryChunks returns deep copies of every chunk across every
// document in libraryID.
func (c *Catalog) ListLibraryChunks(_ context.Context, libraryID string) ([]*vectordb.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	docIDs, ok := c.libraryDocuments[libraryID]
	if !ok {
		return nil, vectordb.NewParentMissing("catalog.ListLibraryChunks", libraryID)
	}
	var out []*vectordb.Chunk
	for docID := range docIDs {
		chunks, _ := c.listDocumentChunksLocked(docID)
		out = append(out, chunks...)
	}
	return out, nil
}

// UpdateChunk replaces text, embedding, and/or metadata.
func (c *Catalog) UpdateChunk(_ context.Context, id string, text *string, embedding []float32, metadata vectordb.Metadata) (*vectordb.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chunk, ok := c.chunks[id]
	if !ok {
		return nil, vectordb.NewNotFound("catalog.UpdateChunk", id)
	}
	if text != nil {
		chunk.Text = *text
	}
	if embedding != nil {
		emb := make([]float32, len(embedding))
		copy(emb, embedding)
		chunk.Embedding = emb
	}
	if metadata != nil {
		chunk.Metadata = metadata.Clone()
	}
	chunk.UpdatedAt = time.Now().UTC()
	return chunk.Clone(), nil
}

// DeleteChunk removes a chunk.
func (c *Catalog) DeleteChunk(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.chunks[id]; !ok {
		return vectordb.NewNotFound("catalog.DeleteChunk", id)
	}
	c.deleteChunkLocked(id)
	return nil
}

// deleteChunkLocked assumes c.mu is already held.
func (c *Catalog) deleteChunkLocked(id string) {
	if docID, ok := c.chunkDocument[id]; ok {
		delete(c.documentChunks[docID], id)
	}
	delete(c.chunks, id)
	delete(c.chunkDocument, id)
}

// ChunkLibraryID resolves the library that owns a chunk, by walking
// chunk -> document -> library. Returns KindNotFound if the chunk is absent.
func (c *Catalog) ChunkLibraryID(_ context.Context, chunkID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	docID, ok := c.chunkDocument[chunkID]
	if !ok {
		return "", vectordb.NewNotFound("catalog.ChunkLibraryID", chunkID)
	}
	return c.documentLibrary[docID], nil
}
