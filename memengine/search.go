package memengine

import (
	"fmt"
	"sort"

	"github.com/altindex/qcompose"
)

// Search execute a composed query and return results ranked
// [startRank, endRank); rank 0 is the best match. Facet counting runs
// over the ranked match list when the query carries a facet request.
func (idx *Index) Search(q *qcompose.Query, startRank, endRank int, opts ...qcompose.SearchOpt) (*qcompose.SearchResults, error) {
	if !idx.compiled {
		return nil, fmt.Errorf("index is not compiled")
	}
	options := qcompose.NewSearchOptions(opts...)

	ms, err := idx.eval(q.Expression())
	if err != nil {
		return nil, err
	}
	defer ms.release()

	hits := make([]qcompose.Hit, 0, ms.docs.GetCardinality())
	iter := ms.docs.Iterator()
	for iter.HasNext() {
		docID := iter.Next()
		hits = append(hits, qcompose.Hit{DocID: docID, Weight: ms.weights[docID]})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Weight != hits[j].Weight {
			return hits[i].Weight > hits[j].Weight
		}
		return hits[i].DocID < hits[j].DocID
	})
	qcompose.LogDebugIf(idx.debug, "query:%s matched:%d", q.String(), len(hits))

	results := &qcompose.SearchResults{}
	if spec := q.FacetRequest(); spec != nil {
		results.Facets = idx.countFacets(spec, hits, options)
	}

	if startRank < 0 {
		startRank = 0
	}
	if endRank > len(hits) {
		endRank = len(hits)
	}
	if startRank < endRank {
		results.Hits = hits[startRank:endRank]
	}
	return results, nil
}

// MaxPossibleWeight the structural upper bound of weights q can assign
func (idx *Index) MaxPossibleWeight(q *qcompose.Query) (float64, error) {
	return idx.bound(q.Expression())
}

// countFacets count field values over the ranked matches. A per-field
// CheckAtLeast (or the search-level one) limits counting to the first K
// ranked matches; 0 examines every match. DesiredCategories keeps only
// the top categories.
func (idx *Index) countFacets(spec *qcompose.FacetSpec, hits []qcompose.Hit, options qcompose.SearchOptions) map[string][]qcompose.FacetCount {
	var fields []string
	if spec.Invert {
		for field := range idx.fields {
			if _, excluded := spec.Fields[field]; !excluded {
				fields = append(fields, field)
			}
		}
		sort.Strings(fields)
	} else {
		for field := range spec.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
	}

	facets := make(map[string][]qcompose.FacetCount, len(fields))
	for _, field := range fields {
		fi, ok := idx.fields[field]
		if !ok {
			continue
		}
		params := spec.Fields[field] // zero value in invert mode

		depth := options.CheckAtLeast
		if params.CheckAtLeast > depth {
			depth = params.CheckAtLeast
		}
		if depth == 0 || depth > len(hits) {
			depth = len(hits)
		}

		counts := make(map[string]int)
		for _, hit := range hits[:depth] {
			for _, value := range fi.docValues[hit.DocID] {
				counts[value]++
			}
		}
		if len(counts) == 0 {
			continue
		}

		ranked := make([]qcompose.FacetCount, 0, len(counts))
		for value, count := range counts {
			ranked = append(ranked, qcompose.FacetCount{Value: value, Count: count})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Count != ranked[j].Count {
				return ranked[i].Count > ranked[j].Count
			}
			return ranked[i].Value < ranked[j].Value
		})
		if params.DesiredCategories > 0 && len(ranked) > params.DesiredCategories {
			ranked = ranked[:params.DesiredCategories]
		}
		facets[field] = ranked
	}
	return facets
}
