package engine

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

type fakeExpr struct {
	empty bool
}

func (e fakeExpr) Empty() bool { return e.empty }

func TestOperator(t *testing.T) {
	convey.Convey("operator names and associativity", t, func() {
		convey.So(OpAnd.String(), convey.ShouldEqual, "OP_AND")
		convey.So(OpOr.String(), convey.ShouldEqual, "OP_OR")
		convey.So(Operator(0).String(), convey.ShouldEqual, "OP_UNKNOWN")

		convey.So(OpAnd.Associative(), convey.ShouldBeTrue)
		convey.So(OpOr.Associative(), convey.ShouldBeTrue)
		convey.So(OpXor.Associative(), convey.ShouldBeFalse)
		convey.So(OpFilter.Associative(), convey.ShouldBeFalse)
	})
}

func TestCompositeEmpty(t *testing.T) {
	full := fakeExpr{}
	hollow := EmptyExpression()

	convey.Convey("and-like composites need every side", t, func() {
		convey.So(Combine(OpAnd, []Expression{full, hollow}).Empty(), convey.ShouldBeTrue)
		convey.So(Combine(OpAnd, []Expression{full, full}).Empty(), convey.ShouldBeFalse)
		convey.So(Pair(OpFilter, full, hollow).Empty(), convey.ShouldBeTrue)
	})

	convey.Convey("or-like composites need any side", t, func() {
		convey.So(Combine(OpOr, []Expression{hollow, hollow}).Empty(), convey.ShouldBeTrue)
		convey.So(Combine(OpOr, []Expression{hollow, full}).Empty(), convey.ShouldBeFalse)
		convey.So(Pair(OpXor, hollow, full).Empty(), convey.ShouldBeFalse)
	})

	convey.Convey("left-driven composites follow the left side", t, func() {
		convey.So(Pair(OpAndNot, hollow, full).Empty(), convey.ShouldBeTrue)
		convey.So(Pair(OpAndNot, full, hollow).Empty(), convey.ShouldBeFalse)
		convey.So(Pair(OpAndMaybe, hollow, full).Empty(), convey.ShouldBeTrue)
	})

	convey.Convey("no subs means no matches", t, func() {
		convey.So(Combine(OpOr, nil).Empty(), convey.ShouldBeTrue)
	})
}

func TestScaledEmpty(t *testing.T) {
	convey.Convey("scaling preserves emptiness", t, func() {
		convey.So(Scale(EmptyExpression(), 2.0).Empty(), convey.ShouldBeTrue)
		convey.So(Scale(fakeExpr{}, 2.0).Empty(), convey.ShouldBeFalse)
		convey.So(Scale(nil, 2.0).Empty(), convey.ShouldBeTrue)
	})
}

func TestIsEmpty(t *testing.T) {
	convey.Convey("nil expressions count as empty", t, func() {
		convey.So(IsEmpty(nil), convey.ShouldBeTrue)
		convey.So(IsEmpty(EmptyExpression()), convey.ShouldBeTrue)
		convey.So(IsEmpty(fakeExpr{}), convey.ShouldBeFalse)
	})
}
