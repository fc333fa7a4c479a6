package qcompose

import "errors"

// Composition failures are caller programming errors; they are reported
// synchronously at the offending call and never retried. All errors
// returned by this package wrap one of the sentinels below, so callers
// can classify failures with errors.Is.
var (
	// ErrNotComposable an operand carries search params (eg. a facet
	// request) and can no longer be combined with other queries
	ErrNotComposable = errors.New("query is not composable")

	// ErrConnMismatch two operands are associated with different connections
	ErrConnMismatch = errors.New("queries are not from the same connection")

	// ErrNoConnection the operation needs a connection but the query has none
	ErrNoConnection = errors.New("query is not associated with a connection")

	// ErrFacetModeConflict facet include/exclude modes mixed on one lineage
	ErrFacetModeConflict = errors.New("conflicting facet request modes")

	// ErrUnsupportedType an operand is neither a Query, an engine
	// expression, nor a usable numeric factor
	ErrUnsupportedType = errors.New("unsupported operand type")

	// ErrUnsupportedOperator the operator cannot be used for n-ary composition
	ErrUnsupportedOperator = errors.New("operator is not associative")
)
