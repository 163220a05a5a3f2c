package catalog

import (
	"context"
	"strings"
	"unicode/utf8"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// MinLibraryNameLength is the shortest a library name may be after trimming.
const MinLibraryNameLength = 3

// Service wraps a Catalog with the business-policy validation the original
// system split across LibraryService, DocumentService, and ChunkService
// (_examples/original_source/app/services/{library,document,chunk}_service.py).
// Rather than reproduce that three-way split, every policy check lives on
// this one type; Catalog itself stays policy-free.
type Service struct {
	catalog *Catalog
}

// NewService wraps catalog with name/title/text policy enforcement.
func NewService(catalog *Catalog) *Service {
	return &Service{catalog: catalog}
}

// Catalog exposes the underlying Catalog for read paths that don't need
// policy checks (e.g. the query engine listing chunks to index).
func (s *Service) Catalog() *Catalog { return s.catalog }

func validationError(op, msg string) error {
	return vectordb.NewValidation(op, msg)
}

// CreateLibrary enforces: name trims to >= MinLibraryNameLength characters,
// no leading/trailing whitespace, and case-insensitive uniqueness among
// existing libraries before delegating to the catalog.
func (s *Service) CreateLibrary(ctx context.Context, id, name string, metadata vectordb.Metadata) (*vectordb.Library, error) {
	const op = "catalog.Service.CreateLibrary"
	if err := validateLibraryName(op, name); err != nil {
		return nil, err
	}
	existing := s.catalog.ListLibraries(ctx)
	for _, lib := range existing {
		if strings.EqualFold(lib.Name, name) {
			return nil, validationError(op, "library name already in use: "+name)
		}
	}
	return s.catalog.CreateLibrary(ctx, id, name, metadata)
}

// UpdateLibrary re-validates name the same way CreateLibrary does when a
// new name is supplied, excluding the library being updated from the
// uniqueness scan.
func (s *Service) UpdateLibrary(ctx context.Context, id string, name *string, metadata vectordb.Metadata) (*vectordb.Library, error) {
	const op = "catalog.Service.UpdateLibrary"
	if name != nil {
		if err := validateLibraryName(op, *name); err != nil {
			return nil, err
		}
		existing := s.catalog.ListLibraries(ctx)
		for _, lib := range existing {
			if lib.ID != id && strings.EqualFold(lib.Name, *name) {
				return nil, validationError(op, "library name already in use: "+*name)
			}
		}
	}
	return s.catalog.UpdateLibrary(ctx, id, name, metadata)
}

func validateLibraryName(op, name string) error {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < MinLibraryNameLength {
		return validationError(op, "library name must be at least 3 characters")
	}
	if trimmed != name {
		return validationError(op, "library name must not have leading or trailing whitespace")
	}
	return nil
}

// CreateDocument enforces: non-empty, untrimmed title, and case-insensitive
// uniqueness of title within the library.
func (s *Service) CreateDocument(ctx context.Context, id, libraryID, title string, metadata vectordb.Metadata) (*vectordb.Document, error) {
	const op = "catalog.Service.CreateDocument"
	if err := validateDocumentTitle(op, title); err != nil {
		return nil, err
	}
	siblings, err := s.catalog.ListLibraryDocuments(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	for _, doc := range siblings {
		if strings.EqualFold(doc.Title, title) {
			return nil, validationError(op, "document title already in use in this library: "+title)
		}
	}
	return s.catalog.CreateDocument(ctx, id, libraryID, title, metadata)
}

// UpdateDocument re-validates title the same way CreateDocument does when a
// new title is supplied.
func (s *Service) UpdateDocument(ctx context.Context, id string, title *string, metadata vectordb.Metadata) (*vectordb.Document, error) {
	const op = "catalog.Service.UpdateDocument"
	if title != nil {
		if err := validateDocumentTitle(op, *title); err != nil {
			return nil, err
		}
		existing, err := s.catalog.GetDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		siblings, err := s.catalog.ListLibraryDocuments(ctx, existing.LibraryID)
		if err != nil {
			return nil, err
		}
		for _, doc := range siblings {
			if doc.ID != id && strings.EqualFold(doc.Title, *title) {
				return nil, validationError(op, "document title already in use in this library: "+*title)
			}
		}
	}
	return s.catalog.UpdateDocument(ctx, id, title, metadata)
}

func validateDocumentTitle(op, title string) error {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) < 1 {
		return validationError(op, "document title cannot be empty")
	}
	if trimmed != title {
		return validationError(op, "document title must not have leading or trailing whitespace")
	}
	return nil
}

// CreateChunk enforces: non-empty text within MaxChunkTextLength, and (if an
// embedding is supplied) a non-empty vector.
func (s *Service) CreateChunk(ctx context.Context, id, documentID, text string, embedding []float32, metadata vectordb.Metadata) (*vectordb.Chunk, error) {
	const op = "catalog.Service.CreateChunk"
	if err := validateChunkText(op, text); err != nil {
		return nil, err
	}
	if embedding != nil && len(embedding) == 0 {
		return nil, validationError(op, "embedding cannot be empty if provided")
	}
	return s.catalog.CreateChunk(ctx, id, documentID, text, embedding, metadata)
}

// UpdateChunk re-validates text and embedding the same way CreateChunk does
// when new values are supplied.
func (s *Service) UpdateChunk(ctx context.Context, id string, text *string, embedding []float32, metadata vectordb.Metadata) (*vectordb.Chunk, error) {
	const op = "catalog.Service.UpdateChunk"
	if text != nil {
		if err := validateChunkText(op, *text); err != nil {
			return nil, err
		}
	}
	if embedding != nil && len(embedding) == 0 {
		return nil, validationError(op, "embedding cannot be empty if provided")
	}
	return s.catalog.UpdateChunk(ctx, id, text, embedding, metadata)
}

func validateChunkText(op, text string) error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 1 {
		return validationError(op, "chunk text cannot be empty")
	}
	if utf8.RuneCountInString(text) > vectordb.MaxChunkTextLength {
		return validationError(op, "chunk text exceeds maximum length")
	}
	return nil
}
