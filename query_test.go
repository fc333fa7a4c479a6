package qcompose

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/altindex/qcompose/engine"
)

func TestNewQuery(t *testing.T) {
	convey.Convey("test empty query", t, func() {
		q := NewQuery()
		convey.So(q.Empty(), convey.ShouldBeTrue)
		convey.So(q.IsComposable(), convey.ShouldBeTrue)
		convey.So(repr(q), convey.ShouldEqual, "Query()")
		convey.So(q.Connection(), convey.ShouldBeNil)
		convey.So(q.Original(), convey.ShouldEqual, q)

		_, hasCacheID := q.CachedQueryID()
		convey.So(hasCacheID, convey.ShouldBeFalse)
	})
}

func TestNewQueryFromExpr(t *testing.T) {
	convey.Convey("raw expression has no textual provenance", t, func() {
		q := NewQueryFromExpr(stubExpr{})
		convey.So(q.Empty(), convey.ShouldBeFalse)

		_, ok := q.EvalableRepr()
		convey.So(ok, convey.ShouldBeFalse)
	})

	convey.Convey("nil expression is the empty expression", t, func() {
		q := NewQueryFromExpr(nil)
		convey.So(q.Empty(), convey.ShouldBeTrue)
	})

	convey.Convey("options attach leaf state", t, func() {
		conn := &stubConn{name: "c1"}
		q := NewQueryFromExpr(stubExpr{},
			WithConnection(conn),
			WithSerialized(`conn.term("color", "red")`),
			WithRanges(RangeSpec{Field: "price", Start: "1", End: "9"}),
		)
		convey.So(q.Connection(), convey.ShouldEqual, conn)
		convey.So(repr(q), convey.ShouldEqual, `conn.term("color", "red")`)
		convey.So(q.Ranges(), convey.ShouldResemble,
			[]RangeSpec{{Field: "price", Start: "1", End: "9"}})
	})

	convey.Convey("duplicated range facts collapse", t, func() {
		r := RangeSpec{Field: "price", Start: "1", End: "9"}
		q := NewQueryFromExpr(stubExpr{}, WithRanges(r, r))
		convey.So(len(q.Ranges()), convey.ShouldEqual, 1)
	})
}

func TestQuery_Clone(t *testing.T) {
	convey.Convey("clone keeps text, metadata and params", t, func() {
		conn := &stubConn{name: "c1"}
		q := leaf("A", WithConnection(conn),
			WithRanges(RangeSpec{Field: "price", Start: "1", End: "9"}))
		fq, err := q.RequestFacets([]string{"color"}, 0, 0)
		convey.So(err, convey.ShouldBeNil)

		cp := fq.Clone()
		convey.So(cp.Connection(), convey.ShouldEqual, conn)
		convey.So(repr(cp), convey.ShouldEqual, repr(fq))
		convey.So(cp.IsComposable(), convey.ShouldBeFalse)

		convey.Convey("search params are deep copied", func() {
			ext, err := cp.RequestFacets([]string{"size"}, 10, 0)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(ext.FacetRequest().Fields), convey.ShouldEqual, 2)
			convey.So(len(fq.FacetRequest().Fields), convey.ShouldEqual, 1)
		})
	})

	convey.Convey("clone drops the cache link", t, func() {
		conn := &stubConn{maxWeight: 2.0}
		conn.cached = map[int]*Query{7: leaf("C", WithConnection(conn))}
		q := leaf("A", WithConnection(conn))

		merged, err := q.MergeWithCached(7)
		convey.So(err, convey.ShouldBeNil)

		cp := merged.Clone()
		_, hasCacheID := cp.CachedQueryID()
		convey.So(hasCacheID, convey.ShouldBeFalse)
		convey.So(cp.Original(), convey.ShouldEqual, cp)
	})
}

func TestQuery_Search(t *testing.T) {
	convey.Convey("search delegates to the connection", t, func() {
		conn := &stubConn{}
		q := leaf("A", WithConnection(conn))
		res, err := q.Search(0, 10)
		convey.So(err, convey.ShouldBeNil)
		convey.So(res, convey.ShouldNotBeNil)
		convey.So(conn.searched, convey.ShouldEqual, 1)
	})

	convey.Convey("search without a connection fails", t, func() {
		_, err := leaf("A").Search(0, 10)
		convey.So(errorsIs(err, ErrNoConnection), convey.ShouldBeTrue)
	})
}

func TestQuery_EmptyExprComposite(t *testing.T) {
	convey.Convey("composite emptiness follows operator semantics", t, func() {
		full := leaf("A")
		hollow := NewQuery()

		and, err := Compose(engine.OpAnd, full, hollow)
		convey.So(err, convey.ShouldBeNil)
		convey.So(and.Empty(), convey.ShouldBeTrue)

		or, err := Compose(engine.OpOr, full, hollow)
		convey.So(err, convey.ShouldBeNil)
		convey.So(or.Empty(), convey.ShouldBeFalse)
	})
}
