package qcompose

import (
	"fmt"
	"math"

	"github.com/altindex/qcompose/engine"
)

// Scale return a query whose weights are factor times the original
// weights. NaN and infinite factors are rejected.
func (q *Query) Scale(factor float64) (*Query, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: scale factor %v", ErrUnsupportedType, factor)
	}
	if err := q.checkComposable(); err != nil {
		return nil, err
	}

	result := &Query{expr: engine.Scale(q.expr, factor)}
	if err := result.mergeParams(q); err != nil {
		return nil, err
	}
	if q.hasSerialized {
		result.serialized = "(" + q.serialized + " * " + formatFactor(factor) + ")"
		result.hasSerialized = true
	}
	return result, nil
}

// Div return a query with weights divided by divisor; this is scaling
// by the reciprocal, and serializes as such.
func (q *Query) Div(divisor float64) (*Query, error) {
	if divisor == 0 {
		return nil, fmt.Errorf("%w: division by zero", ErrUnsupportedType)
	}
	return q.Scale(1.0 / divisor)
}

// MaxPossibleWeight the upper bound of weights this query can assign.
// An empty query bounds at 0 without consulting the connection.
func (q *Query) MaxPossibleWeight() (float64, error) {
	if q.Empty() {
		return 0, nil
	}
	if q.conn == nil {
		return 0, fmt.Errorf("%w", ErrNoConnection)
	}
	return q.conn.MaxPossibleWeight(q)
}

// Norm normalize the query so weights fall in 0..1. Note that it is
// rare for any document to actually attain the bound.
func (q *Query) Norm() (*Query, error) {
	return q.NormTo(1.0)
}

// NormTo normalize the query so weights fall in 0..maxWeight.
//
// Equivalent to dividing by MaxPossibleWeight, except that a bound of
// zero (no document can score positively) returns the query unchanged
// instead of scaling by an undefined factor, and the serialized form
// stays a readable ".norm()" call instead of a long float literal.
func (q *Query) NormTo(maxWeight float64) (*Query, error) {
	bound, err := q.MaxPossibleWeight()
	if err != nil {
		return nil, err
	}
	if bound <= 0 {
		return q, nil
	}

	result, err := q.Scale(maxWeight / bound)
	if err != nil {
		return nil, err
	}
	if q.hasSerialized {
		if maxWeight == 1.0 {
			result.serialized = q.serialized + ".norm()"
		} else {
			result.serialized = q.serialized + ".norm(" + formatFactor(maxWeight) + ")"
		}
		result.hasSerialized = true
	}
	return result, nil
}
