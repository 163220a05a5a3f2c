package vectordb

import "time"

// MaxChunkTextLength is the upper bound on a chunk's text payload, per
// spec.md §3: "text payload (1..10,000 characters)".
const MaxChunkTextLength = 10000

// Metadata is a free-form, JSON-like attribute bag attached to every entity.
// Values may be nested maps, slices, strings, numbers, or booleans.
type Metadata map[string]any

// Clone returns a deep copy of m so callers can mutate their copy without
// affecting the catalog's internal state (spec.md §9 "deep-copy-on-read").
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}

// Library is the top level of the hierarchy: a named collection of
// documents. Deleting a library cascades to every document and chunk it
// owns (spec.md §3, composition ownership).
type Library struct {
	ID        string
	Name      string
	Metadata  Metadata
	CreatedAt time.Time
}

// Clone returns an independent deep copy.
func (l *Library) Clone() *Library {
	if l == nil {
		return nil
	}
	return &Library{
		ID:        l.ID,
		Name:      l.Name,
		Metadata:  l.Metadata.Clone(),
		CreatedAt: l.CreatedAt,
	}
}

// Document belongs to exactly one library; the link is immutable after
// creation.
type Document struct {
	ID        string
	LibraryID string
	Title     string
	Metadata  Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns an independent deep copy.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		ID:        d.ID,
		LibraryID: d.LibraryID,
		Title:     d.Title,
		Metadata:  d.Metadata.Clone(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Chunk is a leaf: text, its embedding, and metadata, owned by one
// document. The embedding may be empty at creation if generation was
// deferred, but every chunk participating in an index build must carry one
// (spec.md §3).
type Chunk struct {
	ID         string
	DocumentID string
	Text       string
	Embedding  []float32
	Metadata   Metadata
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Clone returns an independent deep copy.
func (c *Chunk) Clone() *Chunk {
	if c == nil {
		return nil
	}
	var emb []float32
	if c.Embedding != nil {
		emb = make([]float32, len(c.Embedding))
		copy(emb, c.Embedding)
	}
	return &Chunk{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Text:       c.Text,
		Embedding:  emb,
		Metadata:   c.Metadata.Clone(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CloneChunks deep-copies a slice of chunk pointers.
func CloneChunks(chunks []*Chunk) []*Chunk {
	out := make([]*Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = c.Clone()
	}
	return out
}
