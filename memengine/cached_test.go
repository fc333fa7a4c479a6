package memengine

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestCached_StoreAndQuery(t *testing.T) {
	convey.Convey("cached result sets rank by their stored order", t, func() {
		idx := buildTestIndex(t)

		id := idx.StoreCached([]uint64{4, 3})
		convey.So(id, convey.ShouldEqual, 1)

		q, err := idx.QueryCached(id)
		convey.So(err, convey.ShouldBeNil)
		text, known := q.EvalableRepr()
		convey.So(known, convey.ShouldBeTrue)
		convey.So(text, convey.ShouldEqual, "conn.query_cached(1)")

		res, err := q.Search(0, 10)
		convey.So(err, convey.ShouldBeNil)
		convey.So(hitIDs(res.Hits), convey.ShouldResemble, []uint64{4, 3})
		convey.So(res.Hits[0].Weight, convey.ShouldAlmostEqual, 1.0)
		convey.So(res.Hits[1].Weight, convey.ShouldAlmostEqual, 0.5)

		convey.Convey("unknown ids are rejected", func() {
			_, err := idx.QueryCached(42)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestCached_Merge(t *testing.T) {
	convey.Convey("merging a cached set into a live query", t, func() {
		idx := buildTestIndex(t)
		id := idx.StoreCached([]uint64{4, 3})

		q := idx.QueryTerm("color", "red") // matches docs 1, 2
		merged, err := q.MergeWithCached(id)
		convey.So(err, convey.ShouldBeNil)

		cacheID, ok := merged.CachedQueryID()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(cacheID, convey.ShouldEqual, id)
		convey.So(merged.Original(), convey.ShouldEqual, q)

		res, err := merged.Search(0, 10)
		convey.So(err, convey.ShouldBeNil)
		// live matches normalize to 1.0 and tie with the cached head
		convey.So(hitIDs(res.Hits), convey.ShouldResemble, []uint64{1, 2, 4, 3})
		convey.So(res.Hits[0].Weight, convey.ShouldAlmostEqual, 1.0)
		convey.So(res.Hits[3].Weight, convey.ShouldAlmostEqual, 0.5)
	})
}

func TestCached_ExportImport(t *testing.T) {
	convey.Convey("the cached registry round-trips between engines", t, func() {
		src := buildTestIndex(t)
		first := src.StoreCached([]uint64{4, 3})
		second := src.StoreCached([]uint64{2})

		data, err := src.ExportCached()
		convey.So(err, convey.ShouldBeNil)

		dst := buildTestIndex(t)
		convey.So(dst.ImportCached(data), convey.ShouldBeNil)

		q, err := dst.QueryCached(first)
		convey.So(err, convey.ShouldBeNil)
		res, err := q.Search(0, 10)
		convey.So(err, convey.ShouldBeNil)
		convey.So(hitIDs(res.Hits), convey.ShouldResemble, []uint64{4, 3})

		q, err = dst.QueryCached(second)
		convey.So(err, convey.ShouldBeNil)
		res, err = q.Search(0, 10)
		convey.So(err, convey.ShouldBeNil)
		convey.So(hitIDs(res.Hits), convey.ShouldResemble, []uint64{2})

		convey.Convey("new ids allocate past the imported ones", func() {
			next := dst.StoreCached([]uint64{1})
			convey.So(next, convey.ShouldEqual, 3)
		})

		convey.Convey("garbage input is rejected", func() {
			convey.So(dst.ImportCached([]byte("not a snapshot")), convey.ShouldNotBeNil)
		})
	})
}
