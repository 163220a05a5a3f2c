// Package embedding provides the pluggable text→vector capability an
// external adapter uses to resolve query or chunk text into a vector before
// calling the catalog or query engine, which always receive a concrete
// vector. Provides a hash-based, dependency-free StaticProvider and an
// LRU-wrapped CachedProvider.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// Mode distinguishes the two invocation shapes a provider may treat
// differently (e.g. instruction-prefixed query embeddings).
type Mode string

const (
	ModeDocument Mode = "document"
	ModeQuery    Mode = "query"
)

// Provider maps text to a fixed-dimension vector. The core never calls
// this directly; an external adapter resolves vectors before invoking the
// catalog/query engine.
type Provider interface {
	Embed(ctx context.Context, text string, mode Mode) ([]float32, error)
	Dimensions() int
	ModelName() string
	Available(ctx context.Context) bool
}

// StaticDimensions is the embedding width produced by StaticProvider.
const StaticDimensions = 256

// StaticProvider generates deterministic hash-based embeddings with no
// network dependency, for tests and environments with no remote
// embedding service configured.
type StaticProvider struct {
	mu     sync.RWMutex
	closed bool
}

// NewStaticProvider creates a StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Embed returns a deterministic unit vector derived from text; text with
// no letters or digits yields the all-zero vector. mode does not affect
// the static provider's output.
func (p *StaticProvider) Embed(_ context.Context, text string, _ Mode) ([]float32, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, vectordb.NewEmbeddingUnavailable("embedding.StaticProvider.Embed")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, StaticDimensions), nil
	}
	return normalize(hashVector(trimmed)), nil
}

func hashVector(text string) []float32 {
	vec := make([]float32, StaticDimensions)
	for _, token := range tokenize(text) {
		vec[hashIndex(token)] += 1.0
	}
	return vec
}

func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func hashIndex(token string) int {
	h := fnv.New64()
	_, _ = h.Write([]byte(token))
	return int(h.Sum64() % uint64(StaticDimensions))
}

func normalize(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = float32(float64(val) / magnitude)
	}
	return out
}

// Dimensions returns StaticDimensions.
func (p *StaticProvider) Dimensions() int { return StaticDimensions }

// ModelName identifies this provider.
func (p *StaticProvider) ModelName() string { return "static-hash-v1" }

// Available reports whether the provider has been closed.
func (p *StaticProvider) Available(_ context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// Close marks the provider unavailable.
func (p *StaticProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// DefaultCacheSize bounds CachedProvider's LRU when none is supplied.
const DefaultCacheSize = 1000

// CachedProvider wraps a Provider with an LRU cache keyed by a SHA-256
// hash of (mode, model, text), avoiding redundant calls to a remote
// embedding service for repeated query or chunk text.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, []float32]
}

// NewCachedProvider wraps inner with an LRU cache of the given size (0 uses DefaultCacheSize).
func NewCachedProvider(inner Provider, cacheSize int) *CachedProvider {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](cacheSize)
	return &CachedProvider{inner: inner, cache: cache}
}

func (c *CachedProvider) cacheKey(text string, mode Mode) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s", mode, c.inner.ModelName(), text)))
	return hex.EncodeToString(h[:])
}

// Embed returns the cached vector if present, otherwise computes and caches it.
func (c *CachedProvider) Embed(ctx context.Context, text string, mode Mode) ([]float32, error) {
	key := c.cacheKey(text, mode)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text, mode)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// Dimensions passes through to the wrapped provider.
func (c *CachedProvider) Dimensions() int { return c.inner.Dimensions() }

// ModelName passes through to the wrapped provider.
func (c *CachedProvider) ModelName() string { return c.inner.ModelName() }

// Available passes through to the wrapped provider.
func (c *CachedProvider) Available(ctx context.Context) bool { return c.inner.Available(ctx) }
