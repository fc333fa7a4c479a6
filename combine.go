package qcompose

import (
	"fmt"

	"github.com/altindex/qcompose/engine"
)

// The pairwise operators are binary only: they are neither flattened
// nor combined across chains the way OP_AND/OP_OR compositions are.

// combineWith build the pairwise combination of q and other under op.
// other may be a *Query or a raw engine expression.
func (q *Query) combineWith(op engine.Operator, other interface{}) (*Query, error) {
	if err := q.checkComposable(); err != nil {
		return nil, err
	}

	result := q.clone()

	var oexpr engine.Expression
	switch o := other.(type) {
	case *Query:
		if o == nil {
			return nil, fmt.Errorf("%w: nil Query operand", ErrUnsupportedType)
		}
		if err := o.checkComposable(); err != nil {
			return nil, err
		}
		oexpr = o.expr
		if err := result.mergeParams(o); err != nil {
			return nil, err
		}
		if q.hasSerialized && o.hasSerialized {
			result.serialized = chainRepr(q.serialized, op, o.serialized)
		} else {
			result.serialized, result.hasSerialized = "", false
		}
	case engine.Expression:
		if o == nil {
			return nil, fmt.Errorf("%w: nil expression operand", ErrUnsupportedType)
		}
		oexpr = o
		// raw expressions have no textual provenance
		result.serialized, result.hasSerialized = "", false
	default:
		return nil, fmt.Errorf("%w: %T is not a Query or engine expression", ErrUnsupportedType, other)
	}

	result.expr = engine.Pair(op, q.expr, oexpr)
	return result, nil
}

// Xor return a query matching documents matched by exactly one of the
// two queries.
func (q *Query) Xor(other interface{}) (*Query, error) {
	return q.combineWith(engine.OpXor, other)
}

// AndNot return a query matching this query's documents except those
// also matched by other.
func (q *Query) AndNot(other interface{}) (*Query, error) {
	return q.combineWith(engine.OpAndNot, other)
}

// Filter return a query matching documents matched by both queries,
// with weights taken from this query only.
func (q *Query) Filter(other interface{}) (*Query, error) {
	return q.combineWith(engine.OpFilter, other)
}

// Adjust return a query matching exactly this query's documents, with
// weights boosted by other's contribution where it also matches.
func (q *Query) Adjust(other interface{}) (*Query, error) {
	return q.combineWith(engine.OpAndMaybe, other)
}

// AndMaybe an alternative name for Adjust, familiar to people with a
// retrieval-engine background.
func (q *Query) AndMaybe(other interface{}) (*Query, error) {
	return q.Adjust(other)
}
