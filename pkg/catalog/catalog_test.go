package catalog

import (
	"context"
	"testing"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

func TestCatalogCascadeDelete(t *testing.T) {
	ctx := context.Background()
	c := New()

	lib, err := c.CreateLibrary(ctx, "", "lib", nil)
	if err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	doc, err := c.CreateDocument(ctx, "", lib.ID, "doc", nil)
	if err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	chunk, err := c.CreateChunk(ctx, "", doc.ID, "hello", []float32{1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("CreateChunk() error = %v", err)
	}

	if err := c.DeleteLibrary(ctx, lib.ID); err != nil {
		t.Fatalf("DeleteLibrary() error = %v", err)
	}

	if _, err := c.GetDocument(ctx, doc.ID); !vectordb.IsKind(err, vectordb.KindNotFound) {
		t.Errorf("document should be gone after cascade delete, got err = %v", err)
	}
	if _, err := c.GetChunk(ctx, chunk.ID); !vectordb.IsKind(err, vectordb.KindNotFound) {
		t.Errorf("chunk should be gone after cascade delete, got err = %v", err)
	}

	stats := c.Stats(ctx)
	if stats.Libraries != 0 || stats.Documents != 0 || stats.Chunks != 0 {
		t.Errorf("Stats() = %+v, want all zero", stats)
	}
}

func TestCatalogDeleteDocumentCascadesChunksOnly(t *testing.T) {
	ctx := context.Background()
	c := New()

	lib, _ := c.CreateLibrary(ctx, "", "lib", nil)
	doc, _ := c.CreateDocument(ctx, "", lib.ID, "doc", nil)
	chunk, _ := c.CreateChunk(ctx, "", doc.ID, "hello", nil, nil)

	if err := c.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}

	if _, err := c.GetChunk(ctx, chunk.ID); !vectordb.IsKind(err, vectordb.KindNotFound) {
		t.Errorf("chunk should be gone after document delete, got err = %v", err)
	}
	if _, err := c.GetLibrary(ctx, lib.ID); err != nil {
		t.Errorf("library should survive document delete, got err = %v", err)
	}
}

func TestCatalogIdempotentDeleteIsNotFound(t *testing.T) {
	ctx := context.Background()
	c := New()
	lib, _ := c.CreateLibrary(ctx, "", "lib", nil)

	if err := c.DeleteLibrary(ctx, lib.ID); err != nil {
		t.Fatalf("first DeleteLibrary() error = %v", err)
	}
	if err := c.DeleteLibrary(ctx, lib.ID); !vectordb.IsKind(err, vectordb.KindNotFound) {
		t.Errorf("second DeleteLibrary() = %v, want KindNotFound", err)
	}
}

func TestCatalogCreateWithParentMissing(t *testing.T) {
	ctx := context.Background()
	c := New()

	if _, err := c.CreateDocument(ctx, "", "nonexistent-lib", "doc", nil); !vectordb.IsKind(err, vectordb.KindParentMissing) {
		t.Errorf("CreateDocument() with missing library = %v, want KindParentMissing", err)
	}
	if _, err := c.CreateChunk(ctx, "", "nonexistent-doc", "hi", nil, nil); !vectordb.IsKind(err, vectordb.KindParentMissing) {
		t.Errorf("CreateChunk() with missing document = %v, want KindParentMissing", err)
	}
}

func TestCatalogCreateDuplicateIDIsAlreadyExists(t *testing.T) {
	ctx := context.Background()
	c := New()

	if _, err := c.CreateLibrary(ctx, "fixed-id", "lib-a", nil); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	if _, err := c.CreateLibrary(ctx, "fixed-id", "lib-b", nil); !vectordb.IsKind(err, vectordb.KindAlreadyExists) {
		t.Errorf("CreateLibrary() with reused id = %v, want KindAlreadyExists", err)
	}
}

func TestCatalogUpdateLibraryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New()
	lib, _ := c.CreateLibrary(ctx, "", "original", vectordb.Metadata{"k": "v"})

	newName := "renamed"
	updated, err := c.UpdateLibrary(ctx, lib.ID, &newName, vectordb.Metadata{"k": "v2"})
	if err != nil {
		t.Fatalf("UpdateLibrary() error = %v", err)
	}
	if updated.Name != "renamed" {
		t.Errorf("Name = %q, want %q", updated.Name, "renamed")
	}
	if updated.Metadata["k"] != "v2" {
		t.Errorf("Metadata[k] = %v, want v2", updated.Metadata["k"])
	}

	fetched, err := c.GetLibrary(ctx, lib.ID)
	if err != nil {
		t.Fatalf("GetLibrary() error = %v", err)
	}
	if fetched.Name != "renamed" {
		t.Errorf("persisted Name = %q, want %q", fetched.Name, "renamed")
	}
}

func TestCatalogCloneIsolatesInternalState(t *testing.T) {
	ctx := context.Background()
	c := New()
	lib, _ := c.CreateLibrary(ctx, "", "lib", vectordb.Metadata{"tags": []any{"a", "b"}})

	lib.Name = "mutated-by-caller"
	lib.Metadata["tags"] = "clobbered"

	fetched, err := c.GetLibrary(ctx, lib.ID)
	if err != nil {
		t.Fatalf("GetLibrary() error = %v", err)
	}
	if fetched.Name == "mutated-by-caller" {
		t.Error("mutating a returned Library leaked into catalog state")
	}
	if fetched.Metadata["tags"] == "clobbered" {
		t.Error("mutating returned Metadata leaked into catalog state")
	}
}

func TestCatalogListLibraryChunksAcrossDocuments(t *testing.T) {
	ctx := context.Background()
	c := New()
	lib, _ := c.CreateLibrary(ctx, "", "lib", nil)
	docA, _ := c.CreateDocument(ctx, "", lib.ID, "a", nil)
	docB, _ := c.CreateDocument(ctx, "", lib.ID, "b", nil)
	c.CreateChunk(ctx, "", docA.ID, "one", nil, nil)
	c.CreateChunk(ctx, "", docA.ID, "two", nil, nil)
	c.CreateChunk(ctx, "", docB.ID, "three", nil, nil)

	chunks, err := c.ListLibraryChunks(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListLibraryChunks() error = %v", err)
	}
	if len(chunks) != 3 {
		t.Errorf("len(chunks) = %d, want 3", len(chunks))
	}
}

func TestServiceCreateLibraryValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New())

	if _, err := svc.CreateLibrary(ctx, "", "ab", nil); !vectordb.IsKind(err, vectordb.KindValidation) {
		t.Errorf("short name = %v, want KindValidation", err)
	}
	if _, err := svc.CreateLibrary(ctx, "", " padded ", nil); !vectordb.IsKind(err, vectordb.KindValidation) {
		t.Errorf("padded name = %v, want KindValidation", err)
	}

	if _, err := svc.CreateLibrary(ctx, "", "Research Notes", nil); err != nil {
		t.Fatalf("CreateLibrary() error = %v", err)
	}
	if _, err := svc.CreateLibrary(ctx, "", "research notes", nil); !vectordb.IsKind(err, vectordb.KindValidation) {
		t.Errorf("case-insensitive duplicate name = %v, want KindValidation", err)
	}
}

func TestServiceCreateChunkValidatesText(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New())
	lib, _ := svc.CreateLibrary(ctx, "", "lib", nil)
	doc, _ := svc.CreateDocument(ctx, "", lib.ID, "doc", nil)

	if _, err := svc.CreateChunk(ctx, "", doc.ID, "   ", nil, nil); !vectordb.IsKind(err, vectordb.KindValidation) {
		t.Errorf("blank text = %v, want KindValidation", err)
	}

	oversized := make([]byte, vectordb.MaxChunkTextLength+1)
	for i := range oversized {
		oversized[i] = 'x'
	}
	if _, err := svc.CreateChunk(ctx, "", doc.ID, string(oversized), nil, nil); !vectordb.IsKind(err, vectordb.KindValidation) {
		t.Errorf("oversized text = %v, want KindValidation", err)
	}

	if _, err := svc.CreateChunk(ctx, "", doc.ID, "fine", []float32{}, nil); !vectordb.IsKind(err, vectordb.KindValidation) {
		t.Errorf("empty non-nil embedding = %v, want KindValidation", err)
	}
}
