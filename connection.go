package qcompose

import "fmt"

type (
	// Connection the executing side of a query: it owns the index state
	// and performs retrieval. Queries keep at most one connection across
	// a whole composition and never own it.
	Connection interface {
		// Search execute the query and return the results ranked
		// [startRank, endRank); rank 0 is the best match
		Search(q *Query, startRank, endRank int, opts ...SearchOpt) (*SearchResults, error)

		// MaxPossibleWeight the upper bound of weights q can assign
		MaxPossibleWeight(q *Query) (float64, error)

		// QueryCached a query matching a previously cached result set
		QueryCached(id int) (*Query, error)
	}

	// Hit one ranked result
	Hit struct {
		DocID  uint64
		Weight float64
	}

	FacetCount struct {
		Value string
		Count int
	}

	SearchResults struct {
		Hits []Hit
		// Facets counted categories per field, present only when the
		// query carried a facet request
		Facets map[string][]FacetCount
	}

	SearchOptions struct {
		// CheckAtLeast minimum number of ranked matches to examine when
		// counting facets; 0 examines every match
		CheckAtLeast int
	}

	SearchOpt func(opts *SearchOptions)
)

// WithCheckAtLeast set the minimum number of matches examined for
// facet counting
func WithCheckAtLeast(n int) SearchOpt {
	return func(opts *SearchOptions) {
		opts.CheckAtLeast = n
	}
}

// NewSearchOptions fold functional options into a SearchOptions value;
// connection implementations call this at the top of Search
func NewSearchOptions(opts ...SearchOpt) SearchOptions {
	options := SearchOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Search execute this query through its associated connection.
// startRank/endRank delimit a half-open result window; rank 0 is the
// best match.
func (q *Query) Search(startRank, endRank int, opts ...SearchOpt) (*SearchResults, error) {
	if q.conn == nil {
		return nil, fmt.Errorf("%w", ErrNoConnection)
	}
	return q.conn.Search(q, startRank, endRank, opts...)
}
