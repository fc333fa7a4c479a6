package qcompose

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestPairwiseOperators(t *testing.T) {
	a, b := leaf("A"), leaf("B")

	convey.Convey("pairwise ops render method-chain form", t, func() {
		cases := []struct {
			combine func(interface{}) (*Query, error)
			want    string
		}{
			{a.Xor, "A.xor(B)"},
			{a.AndNot, "A.and_not(B)"},
			{a.Filter, "A.filter(B)"},
			{a.Adjust, "A.adjust(B)"},
			{a.AndMaybe, "A.adjust(B)"},
		}
		for _, c := range cases {
			q, err := c.combine(b)
			convey.So(err, convey.ShouldBeNil)
			convey.So(repr(q), convey.ShouldEqual, c.want)
		}
	})

	convey.Convey("chains nest instead of flattening", t, func() {
		ab, err := a.Filter(b)
		convey.So(err, convey.ShouldBeNil)
		q, err := ab.Filter(leaf("C"))
		convey.So(err, convey.ShouldBeNil)
		convey.So(repr(q), convey.ShouldEqual, "A.filter(B).filter(C)")
	})
}

func TestPairwise_Metadata(t *testing.T) {
	convey.Convey("right operand's metadata merges into the result", t, func() {
		conn := &stubConn{name: "c1"}
		r := RangeSpec{Field: "price", Start: "1", End: "9"}
		a := leaf("A")
		b := leaf("B", WithConnection(conn), WithRanges(r))

		q, err := a.AndNot(b)
		convey.So(err, convey.ShouldBeNil)
		convey.So(q.Connection(), convey.ShouldEqual, conn)
		convey.So(q.Ranges(), convey.ShouldResemble, []RangeSpec{r})
	})

	convey.Convey("distinct connections are rejected", t, func() {
		a := leaf("A", WithConnection(&stubConn{name: "c1"}))
		b := leaf("B", WithConnection(&stubConn{name: "c2"}))
		_, err := a.Xor(b)
		convey.So(errorsIs(err, ErrConnMismatch), convey.ShouldBeTrue)
	})
}

func TestPairwise_Errors(t *testing.T) {
	a := leaf("A")

	convey.Convey("non-composable sides are rejected", t, func() {
		fq, err := a.RequestFacets([]string{"color"}, 0, 0)
		convey.So(err, convey.ShouldBeNil)

		_, err = fq.Filter(leaf("B"))
		convey.So(errorsIs(err, ErrNotComposable), convey.ShouldBeTrue)

		_, err = a.Filter(fq)
		convey.So(errorsIs(err, ErrNotComposable), convey.ShouldBeTrue)
	})

	convey.Convey("junk and nil operands are rejected", t, func() {
		_, err := a.Xor("nope")
		convey.So(errorsIs(err, ErrUnsupportedType), convey.ShouldBeTrue)

		_, err = a.Xor((*Query)(nil))
		convey.So(errorsIs(err, ErrUnsupportedType), convey.ShouldBeTrue)
	})
}

func TestPairwise_RawExpression(t *testing.T) {
	convey.Convey("raw right operand loses the serialized form", t, func() {
		q, err := leaf("A").Filter(stubExpr{})
		convey.So(err, convey.ShouldBeNil)
		convey.So(q.Empty(), convey.ShouldBeFalse)

		_, ok := q.EvalableRepr()
		convey.So(ok, convey.ShouldBeFalse)
	})
}
