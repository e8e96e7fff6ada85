package flatten_test

import (
	"errors"
	"testing"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/flatten"
	"github.com/okian/podsmith/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func participant(id, group string, avg float64, tiers ...float64) model.Participant {
	return model.Participant{ID: id, Name: "name-" + id, Tiers: tiers, Average: avg, GroupID: group}
}

func TestGroup(t *testing.T) {
	Convey("Given two members overlapping on one tier", t, func() {
		members := []model.Participant{
			participant("a", "g1", 2.5, 2, 3),
			participant("b", "g1", 3.5, 3, 4),
		}

		Convey("When flattening under Exact", func() {
			c, err := flatten.Group("g1", members, compat.Exact)

			Convey("Then the group plays only the intersection", func() {
				So(err, ShouldBeNil)
				So(c.TierSet(), ShouldResemble, []float64{3})
				So(c.Size(), ShouldEqual, 2)
				So(c.AverageTier(), ShouldEqual, 3)
				So(c.Key(), ShouldEqual, "g1")
			})
		})
	})

	Convey("Given members with disjoint tiers", t, func() {
		members := []model.Participant{
			participant("a", "g1", 1, 1),
			participant("b", "g1", 7, 7),
		}

		Convey("Then flattening fails with ErrInvalidGroup", func() {
			_, err := flatten.Group("g1", members, compat.SuperLenient)
			So(errors.Is(err, flatten.ErrInvalidGroup), ShouldBeTrue)
		})
	})
}

func TestUnits(t *testing.T) {
	Convey("Given a mixed roster", t, func() {
		roster := []model.Participant{
			participant("s1", "", 3, 3),
			participant("a", "g1", 2.5, 2, 3),
			participant("s2", "", 3, 3),
			participant("b", "g1", 3.5, 3, 4),
		}

		Convey("When building units", func() {
			units, err := flatten.Units(roster, compat.Exact)

			Convey("Then groups collapse at their first member's position", func() {
				So(err, ShouldBeNil)
				So(len(units), ShouldEqual, 3)
				So(units[0].Key(), ShouldEqual, "s1")
				So(units[1].Key(), ShouldEqual, "g1")
				So(units[1].Size(), ShouldEqual, 2)
				So(units[2].Key(), ShouldEqual, "s2")
				So(model.TotalSize(units), ShouldEqual, 4)
			})
		})
	})

	Convey("Given several infeasible groups", t, func() {
		roster := []model.Participant{
			participant("a", "g1", 1, 1),
			participant("b", "g1", 9, 9),
			participant("c", "g2", 2, 2),
			participant("d", "g2", 8, 8),
		}

		Convey("Then every invalid group is reported", func() {
			_, err := flatten.Units(roster, compat.Exact)
			var ige *flatten.InvalidGroupsError
			So(errors.As(err, &ige), ShouldBeTrue)
			So(ige.Groups, ShouldResemble, []string{"g1", "g2"})
			So(errors.Is(err, flatten.ErrInvalidGroup), ShouldBeTrue)
		})
	})

	Convey("Given duplicate names differing only in case", t, func() {
		a := participant("a", "", 3, 3)
		b := participant("b", "", 3, 3)
		a.Name, b.Name = "Alex", " alex"

		Convey("Then validation rejects the roster", func() {
			_, err := flatten.Units([]model.Participant{a, b}, compat.Exact)
			So(errors.Is(err, flatten.ErrDuplicateName), ShouldBeTrue)
		})
	})

	Convey("Given a participant without tiers", t, func() {
		_, err := flatten.Units([]model.Participant{participant("a", "", 0)}, compat.Exact)
		So(errors.Is(err, flatten.ErrEmptyTierSet), ShouldBeTrue)
	})
}
