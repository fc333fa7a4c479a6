package qcompose

import (
	"errors"
	"fmt"
)

// stubExpr stand-in engine expression; tests that need real retrieval
// live in memengine
type stubExpr struct {
	empty bool
}

func (e stubExpr) Empty() bool { return e.empty }

type stubConn struct {
	name      string
	maxWeight float64
	cached    map[int]*Query
	searched  int
}

func (c *stubConn) Search(q *Query, startRank, endRank int, opts ...SearchOpt) (*SearchResults, error) {
	c.searched++
	return &SearchResults{}, nil
}

func (c *stubConn) MaxPossibleWeight(q *Query) (float64, error) {
	return c.maxWeight, nil
}

func (c *stubConn) QueryCached(id int) (*Query, error) {
	q, ok := c.cached[id]
	if !ok {
		return nil, fmt.Errorf("no cached query:%d", id)
	}
	return q, nil
}

func leaf(text string, opts ...QueryOpt) *Query {
	all := append([]QueryOpt{WithSerialized(text)}, opts...)
	return NewQueryFromExpr(stubExpr{}, all...)
}

func errorsIs(err, target error) bool {
	return errors.Is(err, target)
}

func repr(q *Query) string {
	text, ok := q.EvalableRepr()
	if !ok {
		return "<unknown>"
	}
	return text
}
