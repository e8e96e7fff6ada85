package compat_test

import (
	"errors"
	"testing"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/power"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompatible(t *testing.T) {
	Convey("Given two tier sets one step apart", t, func() {
		a := []float64{6}
		b := []float64{6.5}

		Convey("Then they are incompatible under Exact", func() {
			So(compat.Compatible(a, b, compat.Exact), ShouldBeFalse)
		})

		Convey("Then they are compatible under Lenient", func() {
			So(compat.Compatible(a, b, compat.Lenient), ShouldBeTrue)
		})

		Convey("And a full step needs SuperLenient", func() {
			So(compat.Compatible([]float64{6}, []float64{7}, compat.Lenient), ShouldBeFalse)
			So(compat.Compatible([]float64{6}, []float64{7}, compat.SuperLenient), ShouldBeTrue)
		})
	})

	Convey("Given floating noise below epsilon", t, func() {
		So(compat.Compatible([]float64{7}, []float64{7.004}, compat.Exact), ShouldBeTrue)
	})
}

func TestSharedTiers(t *testing.T) {
	Convey("Given overlapping sets", t, func() {
		sets := [][]float64{{2, 3}, {3, 4}, {3}}

		Convey("When computing exact shared tiers", func() {
			So(compat.SharedTiers(sets, compat.Exact), ShouldResemble, []float64{3})
		})
	})

	Convey("Given sets that only meet under leniency", t, func() {
		sets := [][]float64{{6}, {6.5}, {7}}

		Convey("Then Exact yields nothing", func() {
			So(compat.SharedTiers(sets, compat.Exact), ShouldBeEmpty)
		})

		Convey("Then Lenient yields the middle tier", func() {
			So(compat.SharedTiers(sets, compat.Lenient), ShouldResemble, []float64{6.5})
		})

		Convey("Then SuperLenient yields every tier within one step of all", func() {
			So(compat.SharedTiers(sets, compat.SuperLenient), ShouldResemble, []float64{6, 6.5, 7})
		})
	})

	Convey("Given no sets", t, func() {
		So(compat.SharedTiers(nil, compat.Exact), ShouldBeEmpty)
	})
}

func TestTolerance(t *testing.T) {
	Convey("Given tolerance names", t, func() {
		tol, err := compat.ParseTolerance("Super_Lenient")
		So(err, ShouldBeNil)
		So(tol, ShouldEqual, compat.SuperLenient)
		So(tol.Delta(), ShouldEqual, 1.0)

		_, err = compat.ParseTolerance("loose")
		So(errors.Is(err, compat.ErrUnknownTolerance), ShouldBeTrue)
	})

	Convey("Given the bracket scale", t, func() {
		So(compat.Effective(compat.Lenient, power.Bracket), ShouldEqual, compat.Exact)
		So(compat.Effective(compat.Lenient, power.Numeric), ShouldEqual, compat.Lenient)
	})
}
