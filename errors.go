package vectordb

import (
	"errors"
	"fmt"
)

// Kind classifies an Error without requiring callers to match on message text.
type Kind int

const (
	// KindNotFound means the target entity is absent.
	KindNotFound Kind = iota
	// KindParentMissing means a create-under-parent call named an absent parent.
	KindParentMissing
	// KindAlreadyExists means a create call reused an id already in use.
	KindAlreadyExists
	// KindValidation means a field-level constraint was violated.
	KindValidation
	// KindUnknownVariant means an index variant name isn't in the registry.
	KindUnknownVariant
	// KindEmptyQuery means a search vector had length zero.
	KindEmptyQuery
	// KindDimensionMismatch means vector lengths disagreed where they must match.
	KindDimensionMismatch
	// KindInvalidMetric means an unknown similarity metric was requested.
	KindInvalidMetric
	// KindEmbeddingUnavailable means auto-embed was requested with no provider configured.
	KindEmbeddingUnavailable
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindParentMissing:
		return "parent_missing"
	case KindAlreadyExists:
		return "already_exists"
	case KindValidation:
		return "validation"
	case KindUnknownVariant:
		return "unknown_variant"
	case KindEmptyQuery:
		return "empty_query"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindInvalidMetric:
		return "invalid_metric"
	case KindEmbeddingUnavailable:
		return "embedding_unavailable"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind, for errors.Is matching.
var (
	ErrNotFound             = errors.New("not found")
	ErrParentMissing        = errors.New("parent missing")
	ErrAlreadyExists        = errors.New("already exists")
	ErrValidation           = errors.New("validation failed")
	ErrUnknownVariant       = errors.New("unknown index variant")
	ErrEmptyQuery           = errors.New("empty query vector")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrInvalidMetric        = errors.New("invalid similarity metric")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
)

func sentinelFor(k Kind) error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindParentMissing:
		return ErrParentMissing
	case KindAlreadyExists:
		return ErrAlreadyExists
	case KindValidation:
		return ErrValidation
	case KindUnknownVariant:
		return ErrUnknownVariant
	case KindEmptyQuery:
		return ErrEmptyQuery
	case KindDimensionMismatch:
		return ErrDimensionMismatch
	case KindInvalidMetric:
		return ErrInvalidMetric
	case KindEmbeddingUnavailable:
		return ErrEmbeddingUnavailable
	default:
		return errors.New(k.String())
	}
}

// Error wraps a Kind with operation context: an Op naming the failing call
// and an underlying cause that errors.Is/errors.As can still see through.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vectordb: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("vectordb: %s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's kind or wrapped cause.
func (e *Error) Is(target error) bool {
	if target == sentinelFor(e.Kind) {
		return true
	}
	return errors.Is(e.Err, target)
}

// newError builds an *Error for op/kind, optionally wrapping a cause.
func newError(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// IsKind reports whether err (or any error it wraps) carries the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return errors.Is(err, sentinelFor(kind))
}

// NewNotFound builds a KindNotFound error naming the missing id.
func NewNotFound(op, id string) *Error {
	return newError(op, KindNotFound, fmt.Errorf("id %q", id))
}

// NewParentMissing builds a KindParentMissing error naming the missing parent id.
func NewParentMissing(op, parentID string) *Error {
	return newError(op, KindParentMissing, fmt.Errorf("parent id %q", parentID))
}

// NewAlreadyExists builds a KindAlreadyExists error naming the reused id.
func NewAlreadyExists(op, id string) *Error {
	return newError(op, KindAlreadyExists, fmt.Errorf("id %q", id))
}

// NewValidation builds a KindValidation error carrying msg as its cause.
func NewValidation(op, msg string) *Error {
	return newError(op, KindValidation, errors.New(msg))
}

// NewUnknownVariant builds a KindUnknownVariant error naming the rejected variant.
func NewUnknownVariant(op, name string) *Error {
	return newError(op, KindUnknownVariant, fmt.Errorf("variant %q", name))
}

// NewDimensionMismatch builds a KindDimensionMismatch error.
func NewDimensionMismatch(op string, want, got int) *Error {
	return newError(op, KindDimensionMismatch, fmt.Errorf("expected dimension %d, got %d", want, got))
}

// NewEmptyQuery builds a KindEmptyQuery error.
func NewEmptyQuery(op string) *Error {
	return newError(op, KindEmptyQuery, errors.New("query vector has length zero"))
}

// NewEmbeddingUnavailable builds a KindEmbeddingUnavailable error.
func NewEmbeddingUnavailable(op string) *Error {
	return newError(op, KindEmbeddingUnavailable, errors.New("embedding provider unavailable"))
}

// NewInvalidMetric builds a KindInvalidMetric error naming the rejected metric.
func NewInvalidMetric(op, name string) *Error {
	return newError(op, KindInvalidMetric, fmt.Errorf("metric %q", name))
}
