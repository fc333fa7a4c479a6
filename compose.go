package qcompose

import (
	"fmt"

	"github.com/altindex/qcompose/engine"
)

// Compose build a composite query from operands combined under op,
// which must be engine.OpAnd or engine.OpOr.
//
// Operands may be *Query values, raw engine expressions, or nil; nil
// entries are filtered out and ignored. An empty operand list yields an
// empty query, a single operand yields a copy of it. Operands that are
// themselves composites under the same operator are flattened one level
// into the new operand list, which keeps repeated pairwise combination
// from producing deep lopsided trees and keeps the serialized form flat.
func Compose(op engine.Operator, operands ...interface{}) (*Query, error) {
	if !op.Associative() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}

	queries := make([]*Query, 0, len(operands))
	for _, operand := range operands {
		q, err := asOperandQuery(operand)
		if err != nil {
			return nil, err
		}
		if q == nil { // nil operands are ignored
			continue
		}
		queries = append(queries, q)
	}

	// don't build pointless combinations
	if len(queries) == 0 {
		return NewQuery(), nil
	}
	if len(queries) == 1 {
		return queries[0].clone(), nil
	}

	for _, q := range queries {
		if err := q.checkComposable(); err != nil {
			return nil, err
		}
	}

	flattened := make([]*Query, 0, len(queries))
	for _, q := range queries {
		if q.hasOp && q.op == op {
			flattened = append(flattened, q.subs...)
		} else {
			flattened = append(flattened, q)
		}
	}

	result := &Query{op: op, hasOp: true, subs: flattened}

	exprs := make([]engine.Expression, len(flattened))
	texts := make([]string, 0, len(flattened))
	textKnown := true
	for i, q := range flattened {
		exprs[i] = q.expr
		if textKnown && q.hasSerialized {
			texts = append(texts, q.serialized)
		} else {
			textKnown = false
			texts = nil
		}
		if err := result.mergeParams(q); err != nil {
			return nil, err
		}
	}

	result.expr = engine.Combine(op, exprs)
	if textKnown {
		result.serialized = composeRepr(op, texts)
		result.hasSerialized = true
	}
	return result, nil
}

// asOperandQuery normalize an operand to a *Query. Raw engine
// expressions are wrapped; they carry no search params, no metadata and
// no textual provenance. A nil operand normalizes to nil.
func asOperandQuery(operand interface{}) (*Query, error) {
	switch v := operand.(type) {
	case nil:
		return nil, nil
	case *Query:
		if v == nil {
			return nil, nil
		}
		return v, nil
	case engine.Expression:
		return NewQueryFromExpr(v), nil
	}
	return nil, fmt.Errorf("%w: %T is not a Query or engine expression", ErrUnsupportedType, operand)
}

// And combine with another query or raw expression using OP_AND
func (q *Query) And(other interface{}) (*Query, error) {
	return Compose(engine.OpAnd, q, other)
}

// Or combine with another query or raw expression using OP_OR
func (q *Query) Or(other interface{}) (*Query, error) {
	return Compose(engine.OpOr, q, other)
}
