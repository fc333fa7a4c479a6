package memengine

import (
	"fmt"

	"github.com/altindex/qcompose/engine"
)

type (
	// matchSet the evaluation result of one expression: the matched
	// document set and the weight each document attained
	matchSet struct {
		docs    PostingList
		weights map[uint64]float64
	}
)

func newMatchSet() *matchSet {
	return &matchSet{
		docs:    NewPostingList(),
		weights: make(map[uint64]float64),
	}
}

func (ms *matchSet) add(docID uint64, weight float64) {
	ms.docs.Add(docID)
	ms.weights[docID] += weight
}

// setAll assign a constant weight to every matched document
func (ms *matchSet) setAll(weight float64) {
	iter := ms.docs.Iterator()
	for iter.HasNext() {
		ms.weights[iter.Next()] = weight
	}
}

func (ms *matchSet) release() {
	ReleasePostingList(ms.docs)
	ms.docs.Bitmap = nil
}

// eval evaluate an expression tree against this index
func (idx *Index) eval(e engine.Expression) (*matchSet, error) {
	switch v := e.(type) {
	case *engine.Composite:
		return idx.evalComposite(v)
	case *engine.Scaled:
		ms, err := idx.eval(v.Sub)
		if err != nil {
			return nil, err
		}
		for docID := range ms.weights {
			ms.weights[docID] *= v.Factor
		}
		return ms, nil
	case leafExpr:
		if v.index() != idx {
			return nil, fmt.Errorf("expression was built against another index")
		}
		return v.eval(), nil
	}
	if engine.IsEmpty(e) {
		return newMatchSet(), nil
	}
	return nil, fmt.Errorf("expression %T was not built by this engine", e)
}

func (idx *Index) evalComposite(c *engine.Composite) (*matchSet, error) {
	if c.Op == engine.OpAnd || c.Op == engine.OpOr {
		return idx.evalAssociative(c.Op, c.Subs)
	}
	if len(c.Subs) != 2 {
		return nil, fmt.Errorf("operator %s takes exactly two operands, got %d", c.Op, len(c.Subs))
	}

	left, err := idx.eval(c.Subs[0])
	if err != nil {
		return nil, err
	}
	right, err := idx.eval(c.Subs[1])
	if err != nil {
		left.release()
		return nil, err
	}
	defer right.release()

	switch c.Op {
	case engine.OpXor:
		left.docs.Xor(right.docs.Bitmap)
		iter := left.docs.Iterator()
		for iter.HasNext() {
			docID := iter.Next()
			// the document is in exactly one side, the other adds 0
			left.weights[docID] += right.weights[docID]
		}
	case engine.OpAndNot:
		left.docs.AndNot(right.docs.Bitmap)
	case engine.OpFilter:
		// weights taken from the left side only
		left.docs.And(right.docs.Bitmap)
	case engine.OpAndMaybe:
		iter := left.docs.Iterator()
		for iter.HasNext() {
			docID := iter.Next()
			if right.docs.Contains(docID) {
				left.weights[docID] += right.weights[docID]
			}
		}
	default:
		left.release()
		return nil, fmt.Errorf("operator %s is not executable", c.Op)
	}
	return left, nil
}

func (idx *Index) evalAssociative(op engine.Operator, subs []engine.Expression) (*matchSet, error) {
	if len(subs) == 0 {
		return newMatchSet(), nil
	}

	result, err := idx.eval(subs[0])
	if err != nil {
		return nil, err
	}
	for _, sub := range subs[1:] {
		ms, err := idx.eval(sub)
		if err != nil {
			result.release()
			return nil, err
		}
		if op == engine.OpAnd {
			result.docs.And(ms.docs.Bitmap)
		} else {
			result.docs.Or(ms.docs.Bitmap)
		}
		// weights of matching subqueries accumulate
		for docID, w := range ms.weights {
			result.weights[docID] += w
		}
		ms.release()
	}
	return result, nil
}

// bound structural upper bound of the weights e can assign; this backs
// Connection.MaxPossibleWeight and never touches posting entries beyond
// leaf cardinalities
func (idx *Index) bound(e engine.Expression) (float64, error) {
	switch v := e.(type) {
	case *engine.Composite:
		switch v.Op {
		case engine.OpAnd, engine.OpOr, engine.OpAndMaybe:
			var sum float64
			for _, sub := range v.Subs {
				b, err := idx.bound(sub)
				if err != nil {
					return 0, err
				}
				sum += b
			}
			return sum, nil
		case engine.OpXor:
			var max float64
			for _, sub := range v.Subs {
				b, err := idx.bound(sub)
				if err != nil {
					return 0, err
				}
				if b > max {
					max = b
				}
			}
			return max, nil
		case engine.OpAndNot, engine.OpFilter:
			if len(v.Subs) == 0 {
				return 0, nil
			}
			return idx.bound(v.Subs[0])
		}
		return 0, fmt.Errorf("operator %s is not executable", v.Op)
	case *engine.Scaled:
		b, err := idx.bound(v.Sub)
		if err != nil {
			return 0, err
		}
		return b * v.Factor, nil
	case leafExpr:
		if v.index() != idx {
			return 0, fmt.Errorf("expression was built against another index")
		}
		return v.bound(), nil
	}
	if engine.IsEmpty(e) {
		return 0, nil
	}
	return 0, fmt.Errorf("expression %T was not built by this engine", e)
}
