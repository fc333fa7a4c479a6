package memengine

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/echoface/proximityhash"

	"github.com/altindex/qcompose"
	"github.com/altindex/qcompose/engine"
	"github.com/altindex/qcompose/util"
)

// Leaf expressions are the engine-owned handles wrapped by qcompose
// query nodes. Each knows the index it was built against; evaluating a
// leaf against a different index is an error.

type (
	leafExpr interface {
		engine.Expression
		index() *Index
		eval() *matchSet
		bound() float64
	}

	termExpr struct {
		idx          *Index
		field, token string
	}

	rangeExpr struct {
		idx               *Index
		field, start, end string
	}

	nearExpr struct {
		idx   *Index
		field string
		codes []string
	}

	matchExpr struct {
		idx            *Index
		field, content string
	}

	cachedExpr struct {
		idx *Index
		id  int
	}
)

func (idx *Index) checkQueryable() {
	util.PanicIf(!idx.compiled, "compile the index before building queries")
}

// QueryTerm a query matching documents carrying token in field
func (idx *Index) QueryTerm(field, token string) *qcompose.Query {
	idx.checkQueryable()
	return qcompose.NewQueryFromExpr(
		&termExpr{idx: idx, field: field, token: token},
		qcompose.WithConnection(idx),
		qcompose.WithSerialized(fmt.Sprintf("conn.term(%q, %q)", field, token)),
	)
}

// QueryRange a query matching documents whose field value falls in
// [start, end] (inclusive, lexicographic); the range fact is carried on
// the query and survives composition
func (idx *Index) QueryRange(field, start, end string) *qcompose.Query {
	idx.checkQueryable()
	return qcompose.NewQueryFromExpr(
		&rangeExpr{idx: idx, field: field, start: start, end: end},
		qcompose.WithConnection(idx),
		qcompose.WithRanges(qcompose.RangeSpec{Field: field, Start: start, End: end}),
		qcompose.WithSerialized(fmt.Sprintf("conn.range(%q, %q, %q)", field, start, end)),
	)
}

// QueryNear a query matching documents whose geo position in field lies
// within radiusMeters of (lat, lon). The radius is covered with geohash
// cells and compressed, so matching is cell-grained, not an exact
// distance test.
func (idx *Index) QueryNear(field string, lat, lon, radiusMeters float64) *qcompose.Query {
	idx.checkQueryable()
	codes := proximityhash.CreateGeohash(lat, lon, radiusMeters, idx.geoPrecision)
	codes = proximityhash.CompressGeoHash(codes, int(idx.geoMinLevel), int(idx.geoPrecision))
	codes = util.DistinctStrings(codes)
	return qcompose.NewQueryFromExpr(
		&nearExpr{idx: idx, field: field, codes: codes},
		qcompose.WithConnection(idx),
		qcompose.WithSerialized(fmt.Sprintf("conn.near(%q, %s, %s, %s)",
			field, formatCoord(lat), formatCoord(lon), formatCoord(radiusMeters))),
	)
}

// QueryMatch a query matching documents whose indexed tokens in field
// occur as substrings of content, found with the aho-corasick machine
func (idx *Index) QueryMatch(field, content string) *qcompose.Query {
	idx.checkQueryable()
	return qcompose.NewQueryFromExpr(
		&matchExpr{idx: idx, field: field, content: content},
		qcompose.WithConnection(idx),
		qcompose.WithSerialized(fmt.Sprintf("conn.match(%q, %q)", field, content)),
	)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// -- termExpr

func (e *termExpr) index() *Index { return e.idx }

func (e *termExpr) Empty() bool {
	fi, ok := e.idx.fields[e.field]
	if !ok {
		return true
	}
	pl, ok := fi.postings[e.token]
	return !ok || pl.IsEmpty()
}

func (e *termExpr) eval() *matchSet {
	ms := newMatchSet()
	fi, ok := e.idx.fields[e.field]
	if !ok {
		return ms
	}
	pl, ok := fi.postings[e.token]
	if !ok {
		return ms
	}
	w := e.idx.termWeight(e.field, e.token)
	iter := pl.Iterator()
	for iter.HasNext() {
		ms.add(iter.Next(), w)
	}
	return ms
}

func (e *termExpr) bound() float64 {
	return e.idx.termWeight(e.field, e.token)
}

// -- rangeExpr

func (e *rangeExpr) index() *Index { return e.idx }

func (e *rangeExpr) matchTokens() []string {
	fi, ok := e.idx.fields[e.field]
	if !ok {
		return nil
	}
	lo := sort.SearchStrings(fi.tokens, e.start)
	var matched []string
	for i := lo; i < len(fi.tokens) && fi.tokens[i] <= e.end; i++ {
		matched = append(matched, fi.tokens[i])
	}
	return matched
}

func (e *rangeExpr) Empty() bool {
	return len(e.matchTokens()) == 0
}

func (e *rangeExpr) eval() *matchSet {
	ms := newMatchSet()
	fi := e.idx.fields[e.field]
	for _, token := range e.matchTokens() {
		ms.docs.Or(fi.postings[token].Bitmap)
	}
	// boolean-style leaf: constant weight per matched document
	ms.setAll(1.0)
	return ms
}

func (e *rangeExpr) bound() float64 {
	if e.Empty() {
		return 0
	}
	return 1.0
}

// -- nearExpr

func (e *nearExpr) index() *Index { return e.idx }

func (e *nearExpr) Empty() bool {
	fi, ok := e.idx.fields[e.field]
	if !ok {
		return true
	}
	for _, code := range e.codes {
		if pl, ok := fi.postings[code]; ok && !pl.IsEmpty() {
			return false
		}
	}
	return true
}

func (e *nearExpr) eval() *matchSet {
	ms := newMatchSet()
	fi, ok := e.idx.fields[e.field]
	if !ok {
		return ms
	}
	for _, code := range e.codes {
		if pl, ok := fi.postings[code]; ok {
			ms.docs.Or(pl.Bitmap)
		}
	}
	ms.setAll(1.0)
	return ms
}

func (e *nearExpr) bound() float64 {
	if e.Empty() {
		return 0
	}
	return 1.0
}

// -- matchExpr

func (e *matchExpr) index() *Index { return e.idx }

func (e *matchExpr) matchedTokens() []string {
	fi, ok := e.idx.fields[e.field]
	if !ok || fi.machine == nil || len(e.content) == 0 {
		return nil
	}
	terms := fi.machine.MultiPatternSearch([]rune(e.content), false)
	tokens := make([]string, 0, len(terms))
	for _, term := range terms {
		tokens = append(tokens, string(term.Word))
	}
	return util.DistinctStrings(tokens)
}

func (e *matchExpr) Empty() bool {
	return len(e.matchedTokens()) == 0
}

func (e *matchExpr) eval() *matchSet {
	ms := newMatchSet()
	fi := e.idx.fields[e.field]
	for _, token := range e.matchedTokens() {
		w := e.idx.termWeight(e.field, token)
		iter := fi.postings[token].Iterator()
		for iter.HasNext() {
			ms.add(iter.Next(), w)
		}
	}
	return ms
}

func (e *matchExpr) bound() float64 {
	var sum float64
	for _, token := range e.matchedTokens() {
		sum += e.idx.termWeight(e.field, token)
	}
	return sum
}

// -- cachedExpr

func (e *cachedExpr) index() *Index { return e.idx }

func (e *cachedExpr) Empty() bool {
	return len(e.idx.cached[e.id]) == 0
}

func (e *cachedExpr) eval() *matchSet {
	ms := newMatchSet()
	list := e.idx.cached[e.id]
	n := len(list)
	for i, docID := range list {
		// weights descend linearly with the cached rank
		ms.add(docID, float64(n-i)/float64(n))
	}
	return ms
}

func (e *cachedExpr) bound() float64 {
	if len(e.idx.cached[e.id]) == 0 {
		return 0
	}
	return 1.0
}
