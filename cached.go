package qcompose

import (
	"fmt"

	"github.com/altindex/qcompose/engine"
)

// MergeWithCached merge this query with a previously cached result set.
//
// The result matches this query's documents (normalized) OR-ed with the
// cached set handed out by the connection, and records a cache link so
// downstream code can recover both the identifier and the pre-merge
// query via CachedQueryID and Original.
func (q *Query) MergeWithCached(cacheID int) (*Query, error) {
	if q.conn == nil {
		return nil, fmt.Errorf("%w", ErrNoConnection)
	}

	normed, err := q.Norm()
	if err != nil {
		return nil, err
	}
	cached, err := q.conn.QueryCached(cacheID)
	if err != nil {
		return nil, fmt.Errorf("fetch cached query %d: %w", cacheID, err)
	}

	result, err := Compose(engine.OpOr, normed, cached)
	if err != nil {
		return nil, err
	}

	// the merged tree is an execution detail; serialize as the merge call
	if q.hasSerialized {
		result.serialized = fmt.Sprintf("%s.merge_with_cached(%d)", q.serialized, cacheID)
		result.hasSerialized = true
	} else {
		result.serialized, result.hasSerialized = "", false
	}
	result.cacheID, result.hasCacheID = cacheID, true
	result.origin = q
	return result, nil
}
