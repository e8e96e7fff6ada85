package model_test

import (
	"testing"

	"github.com/okian/podsmith/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestUnits(t *testing.T) {
	Convey("Given a solo participant and a group of two", t, func() {
		solo := &model.Individual{Participant: model.Participant{ID: "s1", Tiers: []float64{6, 7}, Average: 6.5}}
		pair := &model.Collective{
			GroupID: "g1",
			Participants: []model.Participant{
				{ID: "a", GroupID: "g1", Tiers: []float64{7}},
				{ID: "b", GroupID: "g1", Tiers: []float64{7, 8}},
			},
			Tiers:   []float64{7},
			Average: 7,
		}
		units := []model.Unit{solo, pair}

		Convey("Units expose their key, size and tier set", func() {
			So(solo.Key(), ShouldEqual, "s1")
			So(solo.Size(), ShouldEqual, 1)
			So(pair.Key(), ShouldEqual, "g1")
			So(pair.Size(), ShouldEqual, 2)
			So(model.TierSets(units), ShouldResemble, [][]float64{{6, 7}, {7}})
		})

		Convey("Flatten expands groups in place", func() {
			ids := []string{}
			for _, p := range model.Flatten(units) {
				ids = append(ids, p.ID)
			}
			So(ids, ShouldResemble, []string{"s1", "a", "b"})
			So(model.TotalSize(units), ShouldEqual, 3)
		})

		Convey("A result counts participants, not units", func() {
			res := model.Result{
				Pods:       []model.Pod{{Number: 1, Units: units}},
				Unassigned: []model.Unit{&model.Individual{Participant: model.Participant{ID: "x"}}},
			}
			So(res.Pods[0].Size(), ShouldEqual, 3)
			So(res.Pods[0].Members(), ShouldHaveLength, 3)
			So(res.AssignedCount(), ShouldEqual, 3)
			So(res.UnassignedCount(), ShouldEqual, 1)
		})
	})
}
