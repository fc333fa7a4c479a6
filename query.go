package qcompose

import (
	"fmt"

	"github.com/altindex/qcompose/engine"
)

// EmptyQueryRepr the canonical serialized form of a query matching nothing
const EmptyQueryRepr = "Query()"

type (
	// RangeSpec a range-filter fact accumulated on a query; membership is
	// judged by full triple equality
	RangeSpec struct {
		Field string `json:"field"`
		Start string `json:"start"`
		End   string `json:"end"`
	}

	// Query one node of a composed boolean/ranking expression tree.
	// Values are immutable once returned; every operator produces a new
	// node and never updates a shared one in place, so nodes are safe to
	// share for reads as long as the engine expression itself is.
	Query struct {
		expr engine.Expression

		// op/subs are set only on the result of an associative
		// composition; they drive one-level flattening of chains
		op    engine.Operator
		hasOp bool
		subs  []*Query

		conn   Connection
		ranges []RangeSpec

		serialized    string
		hasSerialized bool

		cacheID    int
		hasCacheID bool
		origin     *Query

		params searchParams
	}

	QueryOpt func(q *Query)

	searchParams struct {
		facets *FacetSpec
	}
)

func (p searchParams) empty() bool {
	return p.facets == nil
}

func (p searchParams) clone() searchParams {
	if p.facets == nil {
		return searchParams{}
	}
	return searchParams{facets: p.facets.clone()}
}

// WithConnection associate the query with its executing connection
func WithConnection(conn Connection) QueryOpt {
	return func(q *Query) {
		q.conn = conn
	}
}

// WithRanges record range-filter facts carried by the query
func WithRanges(ranges ...RangeSpec) QueryOpt {
	return func(q *Query) {
		for _, r := range ranges {
			if !containsRange(q.ranges, r) {
				q.ranges = append(q.ranges, r)
			}
		}
	}
}

// WithSerialized supply a re-evaluable textual form for the query;
// connections use this when handing out leaf queries
func WithSerialized(text string) QueryOpt {
	return func(q *Query) {
		q.serialized = text
		q.hasSerialized = true
	}
}

// WithCacheID mark the query as representing a cached result set
func WithCacheID(id int) QueryOpt {
	return func(q *Query) {
		q.cacheID = id
		q.hasCacheID = true
	}
}

// NewQuery create a query matching no documents
func NewQuery(opts ...QueryOpt) *Query {
	q := &Query{
		expr:          engine.EmptyExpression(),
		serialized:    EmptyQueryRepr,
		hasSerialized: true,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// NewQueryFromExpr wrap a raw engine expression. The textual provenance
// of a raw expression is unknown, so the serialized form stays unknown
// unless WithSerialized is supplied.
func NewQueryFromExpr(expr engine.Expression, opts ...QueryOpt) *Query {
	if expr == nil {
		expr = engine.EmptyExpression()
	}
	q := &Query{expr: expr}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Clone return a copy of the query. The engine expression is shared
// (it is immutable), search params are deep copied, and the copy is an
// ordinary node again: operator tag and cache link are not carried over.
func (q *Query) Clone() *Query {
	return q.clone()
}

func (q *Query) clone() *Query {
	cp := &Query{
		expr:          q.expr,
		conn:          q.conn,
		serialized:    q.serialized,
		hasSerialized: q.hasSerialized,
		params:        q.params.clone(),
	}
	if len(q.ranges) > 0 {
		cp.ranges = make([]RangeSpec, len(q.ranges))
		copy(cp.ranges, q.ranges)
	}
	return cp
}

// Empty report whether the query can match any document
func (q *Query) Empty() bool {
	return engine.IsEmpty(q.expr)
}

// IsComposable report whether the query may be combined with others.
// Queries carrying search params (eg. facet requests) are terminal,
// execution-only specifications.
func (q *Query) IsComposable() bool {
	return q.params.empty()
}

func (q *Query) checkComposable() error {
	if !q.IsComposable() {
		return fmt.Errorf("%w: query carries search params", ErrNotComposable)
	}
	return nil
}

// mergeParams adopt other's connection and range facts into q.
// Search params and the operator tag are never touched here.
func (q *Query) mergeParams(other *Query) error {
	if q.conn != other.conn {
		if q.conn == nil {
			q.conn = other.conn
		} else if other.conn != nil {
			return fmt.Errorf("%w", ErrConnMismatch)
		}
	}
	for _, r := range other.ranges {
		if !containsRange(q.ranges, r) {
			q.ranges = append(q.ranges, r)
		}
	}
	return nil
}

func containsRange(ranges []RangeSpec, r RangeSpec) bool {
	for _, have := range ranges {
		if have == r {
			return true
		}
	}
	return false
}

// Expression the underlying engine expression. It remains valid only
// as long as the engine that produced its leaves is.
func (q *Query) Expression() engine.Expression {
	return q.expr
}

// Connection the connection this query is associated with, or nil
func (q *Query) Connection() Connection {
	return q.conn
}

// Ranges the accumulated range-filter facts, in accumulation order
func (q *Query) Ranges() []RangeSpec {
	out := make([]RangeSpec, len(q.ranges))
	copy(out, q.ranges)
	return out
}

// EvalableRepr return the serialized, re-evaluable form of the query.
// ok is false when textual provenance was lost: the query (or one of
// its ancestors) was built from a raw engine expression.
func (q *Query) EvalableRepr() (text string, ok bool) {
	return q.serialized, q.hasSerialized
}

// CachedQueryID the cache identifier when this query is the result of
// MergeWithCached (or was handed out by Connection.QueryCached)
func (q *Query) CachedQueryID() (int, bool) {
	return q.cacheID, q.hasCacheID
}

// Original the query before the cached result set was merged in;
// for ordinary queries this is the query itself
func (q *Query) Original() *Query {
	if q.origin != nil {
		return q.origin
	}
	return q
}

func (q *Query) String() string {
	if q.hasSerialized {
		return q.serialized
	}
	return fmt.Sprintf("<Query expr=%T>", q.expr)
}
