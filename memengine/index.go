// Package memengine is a small in-memory retrieval engine implementing
// the qcompose.Connection contract. It exists so query compositions can
// be executed and tested end to end without an external search engine;
// ranking here is deliberately simple (idf-flavored term weights over
// roaring posting lists), not a relevance model.
package memengine

import (
	"math"
	"sort"

	aho "github.com/anknown/ahocorasick"
	"github.com/mmcloughlin/geohash"

	"github.com/altindex/qcompose"
	"github.com/altindex/qcompose/util"
)

const (
	DefaultGeoPrecision = 6
	DefaultGeoMinLevel  = 4
)

type (
	LatLon struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}

	// Document the unit of indexing: per-field token/value lists plus
	// optional geo positions
	Document struct {
		ID     uint64              `json:"id"`
		Fields map[string][]string `json:"fields"`
		Geo    map[string]LatLon   `json:"geo,omitempty"`
	}

	fieldIndex struct {
		postings  map[string]PostingList
		docValues map[uint64][]string

		// built by Compile
		tokens  []string
		machine *aho.Machine
	}

	IndexOpt func(idx *Index)

	// Index an in-memory inverted index. Build phase (AddDocument) and
	// query phase are separated by Compile, the way a batch indexer
	// works; queries built before Compile are a programmer error.
	Index struct {
		debug bool

		geoPrecision uint
		geoMinLevel  uint

		docs   PostingList
		fields map[string]*fieldIndex

		compiled bool

		cached      map[int][]uint64
		nextCacheID int
	}
)

// compile-time check: the index is a full connection
var _ qcompose.Connection = (*Index)(nil)

func WithDebug(debug bool) IndexOpt {
	return func(idx *Index) {
		idx.debug = debug
	}
}

// WithGeoPrecision configure geohash cell sizing for geo fields;
// precision bounds the finest cell, minLevel the coarsest
func WithGeoPrecision(precision, minLevel uint) IndexOpt {
	return func(idx *Index) {
		idx.geoPrecision = precision
		idx.geoMinLevel = minLevel
	}
}

func NewIndex(opts ...IndexOpt) *Index {
	idx := &Index{
		geoPrecision: DefaultGeoPrecision,
		geoMinLevel:  DefaultGeoMinLevel,
		docs:         NewPostingList(),
		fields:       make(map[string]*fieldIndex),
		cached:       make(map[int][]uint64),
		nextCacheID:  1,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

func (idx *Index) fieldIdx(field string) *fieldIndex {
	fi, ok := idx.fields[field]
	if !ok {
		fi = &fieldIndex{
			postings:  make(map[string]PostingList),
			docValues: make(map[uint64][]string),
		}
		idx.fields[field] = fi
	}
	return fi
}

func (fi *fieldIndex) addToken(docID uint64, token string) {
	pl, ok := fi.postings[token]
	if !ok {
		pl = NewPostingList()
		fi.postings[token] = pl
	}
	pl.Add(docID)
}

// AddDocument index one document. Panics on misuse: adding after
// Compile or re-adding a document id.
func (idx *Index) AddDocument(doc Document) {
	util.PanicIf(idx.compiled, "index already compiled, can't add document:%d", doc.ID)
	util.PanicIf(idx.docs.Contains(doc.ID), "document:%d already indexed", doc.ID)

	idx.docs.Add(doc.ID)
	for field, values := range doc.Fields {
		fi := idx.fieldIdx(field)
		for _, v := range values {
			fi.addToken(doc.ID, v)
		}
		fi.docValues[doc.ID] = append(fi.docValues[doc.ID], values...)
	}
	for field, pos := range doc.Geo {
		fi := idx.fieldIdx(field)
		code := geohash.Encode(pos.Lat, pos.Lon)
		for l := idx.geoMinLevel; l <= idx.geoPrecision; l++ {
			fi.addToken(doc.ID, code[:l])
		}
	}
}

// Compile freeze the index: sort token dictionaries and build the
// aho-corasick machines used by QueryMatch.
func (idx *Index) Compile() error {
	if idx.compiled {
		return nil
	}
	for field, fi := range idx.fields {
		fi.tokens = make([]string, 0, len(fi.postings))
		for token := range fi.postings {
			fi.tokens = append(fi.tokens, token)
		}
		sort.Strings(fi.tokens)

		if len(fi.tokens) > 0 {
			keys := make([][]rune, 0, len(fi.tokens))
			for _, token := range fi.tokens {
				keys = append(keys, []rune(token))
			}
			fi.machine = new(aho.Machine)
			if err := fi.machine.Build(keys); err != nil {
				return err
			}
		}
		qcompose.LogDebugIf(idx.debug, "field:%s compiled, tokens:%d", field, len(fi.tokens))
	}
	idx.compiled = true
	return nil
}

// NumDocs number of indexed documents
func (idx *Index) NumDocs() uint64 {
	return idx.docs.GetCardinality()
}

// termWeight idf-flavored per-token weight: 1 + ln(N/df)
func (idx *Index) termWeight(field, token string) float64 {
	fi, ok := idx.fields[field]
	if !ok {
		return 0
	}
	pl, ok := fi.postings[token]
	if !ok || pl.IsEmpty() {
		return 0
	}
	n := idx.docs.GetCardinality()
	df := pl.GetCardinality()
	return 1 + math.Log(float64(n)/float64(df))
}
