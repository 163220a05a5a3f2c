package main

import (
	"fmt"
	"os"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
)

// Exit codes mirror spec.md §6's HTTP-status families, since this CLI
// stands in for the out-of-scope HTTP surface.
const (
	exitOK         = 0
	exitBadRequest = 1 // 400 family: validation, UnknownVariant, EmptyQuery, DimensionMismatch, EmbeddingUnavailable, InvalidMetric
	exitNotFound   = 2 // 404 family: NotFound, ParentMissing
	exitConflict   = 3 // AlreadyExists has no §6 status of its own; a client error like the 400 family, but given its own exit code
	exitInternal   = 4 // 500 family: anything not a *vectordb.Error
)

func exitCodeFor(err error) int {
	switch {
	case vectordb.IsKind(err, vectordb.KindNotFound), vectordb.IsKind(err, vectordb.KindParentMissing):
		return exitNotFound
	case vectordb.IsKind(err, vectordb.KindAlreadyExists):
		return exitConflict
	case vectordb.IsKind(err, vectordb.KindValidation),
		vectordb.IsKind(err, vectordb.KindUnknownVariant),
		vectordb.IsKind(err, vectordb.KindEmptyQuery),
		vectordb.IsKind(err, vectordb.KindDimensionMismatch),
		vectordb.IsKind(err, vectordb.KindEmbeddingUnavailable),
		vectordb.IsKind(err, vectordb.KindInvalidMetric):
		return exitBadRequest
	default:
		return exitInternal
	}
}

// fail prints err and exits with the status family it maps to.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCodeFor(err))
}
