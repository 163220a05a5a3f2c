// Package filter evaluates the metadata predicate language described in
// spec.md §4.5, grounded on
// _examples/original_source/app/services/vector_index_service.py's
// MetadataFilter: dot-path traversal, a fixed operator set, and
// best-effort date parsing.
package filter

import (
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// Predicate is a mapping of dotted key-paths to conditions, conjoined by AND.
type Predicate map[string]any

const regexCacheSize = 256

// Evaluator compiles and caches $regex patterns across calls, grounded on
// the embedding cache pattern in
// _examples/Aman-CERP-amanmcp/internal/embed/cached.go (an LRU keyed by a
// string, here the pattern text instead of a content hash).
type Evaluator struct {
	log        vectordb.Logger
	regexCache *lru.Cache[string, *regexp.Regexp]
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger attaches a logger. The default is vectordb.NopLogger().
func WithLogger(l vectordb.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// New creates an Evaluator with a bounded regex cache.
func New(opts ...Option) *Evaluator {
	cache, _ := lru.New[string, *regexp.Regexp](regexCacheSize)
	e := &Evaluator{log: vectordb.NopLogger(), regexCache: cache}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match reports whether metadata satisfies every condition in p (AND across keys).
func (e *Evaluator) Match(metadata vectordb.Metadata, p Predicate) bool {
	for key, condition := range p {
		if !e.evaluate(metadata, key, condition) {
			return false
		}
	}
	return true
}

func (e *Evaluator) evaluate(metadata vectordb.Metadata, key string, condition any) bool {
	value, _ := getNested(metadata, key)

	conditionMap, ok := condition.(map[string]any)
	if !ok {
		return equalValues(value, condition)
	}

	for op, expected := range conditionMap {
		if !e.evaluateOp(metadata, key, value, op, expected) {
			return false
		}
	}
	return true
}

func (e *Evaluator) evaluateOp(metadata vectordb.Metadata, key string, value any, op string, expected any) bool {
	switch op {
	case "$eq":
		return equalValues(value, expected)
	case "$ne":
		return !equalValues(value, expected)
	case "$gt":
		return value != nil && compareOrdinal(value, expected) > 0
	case "$gte":
		return value != nil && compareOrdinal(value, expected) >= 0
	case "$lt":
		return value != nil && compareOrdinal(value, expected) < 0
	case "$lte":
		return value != nil && compareOrdinal(value, expected) <= 0
	case "$in":
		return memberOf(value, expected)
	case "$nin":
		return !memberOf(value, expected)
	case "$contains":
		s, ok := value.(string)
		expectedStr, eok := expected.(string)
		return ok && eok && strings.Contains(strings.ToLower(s), strings.ToLower(expectedStr))
	case "$regex":
		return e.matchRegex(value, expected)
	case "$exists":
		_, exists := getNested(metadata, key)
		want, ok := expected.(bool)
		return ok && want == exists
	case "$date_after":
		dv, ok1 := parseDate(value)
		ev, ok2 := parseDate(expected)
		return ok1 && ok2 && dv.After(ev)
	case "$date_before":
		dv, ok1 := parseDate(value)
		ev, ok2 := parseDate(expected)
		return ok1 && ok2 && dv.Before(ev)
	case "$date_range":
		return e.matchDateRange(value, expected)
	default:
		e.log.Debug("ignoring unknown predicate operator", "operator", op)
		return true
	}
}

func (e *Evaluator) matchRegex(value, expected any) bool {
	s, ok := value.(string)
	pattern, pok := expected.(string)
	if !ok || !pok {
		return false
	}
	re, ok := e.regexCache.Get(pattern)
	if !ok {
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return false
		}
		e.regexCache.Add(pattern, compiled)
		re = compiled
	}
	return re.MatchString(s)
}

func (e *Evaluator) matchDateRange(value, expected any) bool {
	bounds, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	dv, ok := parseDate(value)
	if !ok {
		return false
	}
	start, ok1 := parseDate(bounds["start"])
	end, ok2 := parseDate(bounds["end"])
	if !ok1 || !ok2 {
		return false
	}
	return !dv.Before(start) && !dv.After(end)
}

// getNested resolves a dot-separated path through nested maps, returning
// (value, true) if every segment resolved, (nil, false) otherwise.
func getNested(metadata vectordb.Metadata, key string) (any, bool) {
	segments := strings.Split(key, ".")
	var current any = map[string]any(metadata)
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		v, exists := m[seg]
		if !exists {
			return nil, false
		}
		current = v
	}
	return current, true
}

func equalValues(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func memberOf(value, expected any) bool {
	items, ok := expected.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if equalValues(value, item) {
			return true
		}
	}
	return false
}

// compareOrdinal returns -1/0/1 comparing a to b as numbers if both are
// numeric, else as strings. Incomparable pairs return 0 (callers only use
// the sign when value is already known non-nil).
func compareOrdinal(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs)
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

var dateFallbackFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
}

// parseDate accepts ISO-8601 first, then a small set of fallback formats
// (spec.md §4.5, §9 "ISO-8601 as canonical").
func parseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		for _, layout := range dateFallbackFormats {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
