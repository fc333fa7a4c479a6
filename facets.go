package qcompose

import (
	"fmt"
	"strconv"

	"github.com/altindex/qcompose/util"
)

type (
	// FacetSpec a facet-request directive attached to a query. With
	// Invert false the listed fields are counted; with Invert true all
	// facet fields except the listed ones are. The mode is fixed by the
	// first request on a lineage.
	FacetSpec struct {
		Invert bool                        `json:"invert"`
		Fields map[string]FacetFieldParams `json:"fields"`
	}

	FacetFieldParams struct {
		// CheckAtLeast minimum number of potential matches the engine
		// must examine when counting; 0 leaves it to the engine
		CheckAtLeast int `json:"check_at_least"`
		// DesiredCategories ideal number of categories wanted; 0 keeps all
		DesiredCategories int `json:"desired_categories"`
	}
)

func (s *FacetSpec) clone() *FacetSpec {
	cp := &FacetSpec{Invert: s.Invert, Fields: make(map[string]FacetFieldParams, len(s.Fields))}
	for field, params := range s.Fields {
		cp.Fields[field] = params
	}
	return cp
}

func (s *FacetSpec) JSONString() string {
	return util.JSONString(s)
}

// RequestFacet mark a single facet field as wanted; see RequestFacets.
func (q *Query) RequestFacet(field string, checkAtLeast, desiredCategories int) (*Query, error) {
	return q.RequestFacets([]string{field}, checkAtLeast, desiredCategories)
}

// RequestFacets return a query matching the same documents, but asking
// the engine to count facets in the named fields. Parameters for a field
// named twice on one lineage overwrite the earlier entry.
//
// The result is a terminal, execution-only query: it can be searched
// but no longer composed with other queries.
func (q *Query) RequestFacets(fields []string, checkAtLeast, desiredCategories int) (*Query, error) {
	return q.requestFacets(false, "request_facets", fields, checkAtLeast, desiredCategories)
}

// RequestFacetsExcept like RequestFacets, but counts every facet field
// apart from the named ones.
func (q *Query) RequestFacetsExcept(fields []string, checkAtLeast, desiredCategories int) (*Query, error) {
	return q.requestFacets(true, "request_facets_except", fields, checkAtLeast, desiredCategories)
}

func (q *Query) requestFacets(invert bool, method string, fields []string, checkAtLeast, desiredCategories int) (*Query, error) {
	result := q.clone()

	spec := result.params.facets
	if spec == nil {
		spec = &FacetSpec{Invert: invert, Fields: make(map[string]FacetFieldParams, len(fields))}
		result.params.facets = spec
	} else if spec.Invert != invert {
		return nil, fmt.Errorf("%w: lineage already requests the opposite mode", ErrFacetModeConflict)
	}
	for _, field := range fields {
		spec.Fields[field] = FacetFieldParams{
			CheckAtLeast:      checkAtLeast,
			DesiredCategories: desiredCategories,
		}
	}

	// both modes render with the self-text prefix and their own method name
	if q.hasSerialized {
		result.serialized = q.serialized + "." + method + "(" + fieldsRepr(fields) + ", " +
			strconv.Itoa(checkAtLeast) + ", " + strconv.Itoa(desiredCategories) + ")"
		result.hasSerialized = true
	} else {
		result.serialized, result.hasSerialized = "", false
	}
	return result, nil
}

// FacetRequest the facet directive attached to this query, or nil.
// Connections read this at search time; the returned spec is a copy.
func (q *Query) FacetRequest() *FacetSpec {
	if q.params.facets == nil {
		return nil
	}
	return q.params.facets.clone()
}
