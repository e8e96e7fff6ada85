package assign_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/okian/podsmith/internal/domain/assign"
	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/flatten"
	"github.com/okian/podsmith/internal/domain/model"
	"github.com/okian/podsmith/internal/domain/planner"
	. "github.com/smartystreets/goconvey/convey"
)

func solo(id string, tiers ...float64) model.Unit {
	return &model.Individual{Participant: model.Participant{
		ID: id, Name: "player-" + id, Tiers: tiers, Average: tiers[0],
	}}
}

func podKeys(res model.Result) [][]string {
	out := make([][]string, len(res.Pods))
	for i, p := range res.Pods {
		for _, u := range p.Units {
			out[i] = append(out[i], u.Key())
		}
	}
	return out
}

func unassignedKeys(res model.Result) []string {
	var out []string
	for _, u := range res.Unassigned {
		out = append(out, u.Key())
	}
	return out
}

func TestGenerateScenarios(t *testing.T) {
	Convey("Given four participants all declaring tier 7", t, func() {
		units := []model.Unit{solo("a", 7), solo("b", 7), solo("c", 7), solo("d", 7)}

		Convey("When generating", func() {
			res := assign.Generate(units, compat.Exact, planner.Balanced)

			Convey("Then they form one pod of four at power 7", func() {
				So(len(res.Pods), ShouldEqual, 1)
				So(res.Pods[0].Size(), ShouldEqual, 4)
				So(res.Pods[0].SharedTiers, ShouldResemble, []float64{7})
				So(res.Pods[0].AveragePower, ShouldEqual, 7)
				So(res.Unassigned, ShouldBeEmpty)
			})
		})
	})

	Convey("Given four tier-1 and two tier-10 participants under Exact", t, func() {
		units := []model.Unit{
			solo("a", 1), solo("b", 1), solo("c", 1), solo("d", 1),
			solo("e", 10), solo("f", 10),
		}

		Convey("When generating", func() {
			res := assign.Generate(units, compat.Exact, planner.Balanced)

			Convey("Then the tier-1 players share one pod and tier-10 are left over", func() {
				So(len(res.Pods), ShouldEqual, 1)
				So(res.Pods[0].Size(), ShouldEqual, 4)
				So(res.Pods[0].SharedTiers, ShouldResemble, []float64{1})
				So(unassignedKeys(res), ShouldResemble, []string{"e", "f"})
			})
		})
	})

	Convey("Given a pair group overlapping on tier 3 and two tier-3 solos", t, func() {
		participants := []model.Participant{
			{ID: "g1a", Name: "Ana", Tiers: []float64{2, 3}, Average: 2.5, GroupID: "g1"},
			{ID: "g1b", Name: "Ben", Tiers: []float64{3, 4}, Average: 3.5, GroupID: "g1"},
			{ID: "s1", Name: "Cy", Tiers: []float64{3}, Average: 3},
			{ID: "s2", Name: "Di", Tiers: []float64{3}, Average: 3},
		}
		units, err := flatten.Units(participants, compat.Exact)
		So(err, ShouldBeNil)

		Convey("When generating", func() {
			res := assign.Generate(units, compat.Exact, planner.Balanced)

			Convey("Then all four share one pod at tier 3", func() {
				So(len(res.Pods), ShouldEqual, 1)
				So(res.Pods[0].Size(), ShouldEqual, 4)
				So(res.Pods[0].SharedTiers, ShouldResemble, []float64{3})
				So(res.Pods[0].Units[0].Key(), ShouldEqual, "g1")
				So(res.Unassigned, ShouldBeEmpty)
			})
		})
	})

	Convey("Given fewer than three participants", t, func() {
		units := []model.Unit{solo("a", 5), solo("b", 5)}

		Convey("Then nobody is placed and input order is kept", func() {
			res := assign.Generate(units, compat.Exact, planner.Balanced)
			So(res.Pods, ShouldBeEmpty)
			So(unassignedKeys(res), ShouldResemble, []string{"a", "b"})
			So(res.Plan, ShouldBeEmpty)
		})
	})

	Convey("Given participants that only meet under leniency", t, func() {
		units := []model.Unit{solo("a", 6), solo("b", 6.5), solo("c", 7)}

		Convey("Then Exact leaves everyone out", func() {
			res := assign.Generate(units, compat.Exact, planner.Balanced)
			So(res.Pods, ShouldBeEmpty)
			So(res.UnassignedCount(), ShouldEqual, 3)
			So(res.Skipped, ShouldNotBeEmpty)
		})

		Convey("Then Lenient seats them together at 6.5", func() {
			res := assign.Generate(units, compat.Lenient, planner.Balanced)
			So(len(res.Pods), ShouldEqual, 1)
			So(res.Pods[0].SharedTiers, ShouldResemble, []float64{6.5})
		})
	})

	Convey("Given a group larger than any slot that fits it", t, func() {
		big := &model.Collective{
			GroupID: "big",
			Participants: []model.Participant{
				{ID: "1", Tiers: []float64{5}}, {ID: "2", Tiers: []float64{5}},
				{ID: "3", Tiers: []float64{5}}, {ID: "4", Tiers: []float64{5}},
			},
			Tiers:   []float64{5},
			Average: 5,
		}
		units := []model.Unit{big, solo("x", 5), solo("y", 5), solo("z", 5)}

		Convey("Then the group is never split", func() {
			// 7 participants plan to [4, 3]: the group fills the four and the solos the three.
			res := assign.Generate(units, compat.Exact, planner.Balanced)
			So(len(res.Pods), ShouldEqual, 2)
			So(podKeys(res)[0], ShouldResemble, []string{"big"})
			So(res.Unassigned, ShouldBeEmpty)
		})
	})
}

func TestGenerateLenientGroups(t *testing.T) {
	Convey("Given two lenient pairs whose merged tiers overlap but whose members do not", t, func() {
		participants := []model.Participant{
			{ID: "a", Name: "Ada", Tiers: []float64{4.5}, Average: 4.5, GroupID: "g1"},
			{ID: "b", Name: "Bo", Tiers: []float64{5}, Average: 5, GroupID: "g1"},
			{ID: "c", Name: "Cal", Tiers: []float64{5.5}, Average: 5.5, GroupID: "g2"},
			{ID: "d", Name: "Dee", Tiers: []float64{6}, Average: 6, GroupID: "g2"},
		}

		Convey("When they are the whole roster", func() {
			units, err := flatten.Units(participants, compat.Lenient)
			So(err, ShouldBeNil)
			res := assign.Generate(units, compat.Lenient, planner.Balanced)

			Convey("Then no pod is formed", func() {
				So(res.Pods, ShouldBeEmpty)
				So(res.UnassignedCount(), ShouldEqual, 4)
				So(res.Skipped, ShouldResemble, []int{4})
			})
		})

		Convey("When two tier-5 solos join", func() {
			roster := append(append([]model.Participant{}, participants...),
				model.Participant{ID: "e", Name: "Eve", Tiers: []float64{5}, Average: 5},
				model.Participant{ID: "f", Name: "Fox", Tiers: []float64{5}, Average: 5},
			)
			units, err := flatten.Units(roster, compat.Lenient)
			So(err, ShouldBeNil)
			res := assign.Generate(units, compat.Lenient, planner.Balanced)

			Convey("Then each pair gets its own pod with a tier every member plays", func() {
				So(len(res.Pods), ShouldEqual, 2)
				So(res.Unassigned, ShouldBeEmpty)
				for _, pod := range res.Pods {
					So(memberShared(pod, compat.Lenient), ShouldNotBeEmpty)
					So(pod.SharedTiers, ShouldResemble, memberShared(pod, compat.Lenient))
					groups := 0
					for _, u := range pod.Units {
						if u.Size() == 2 {
							groups++
						}
					}
					So(groups, ShouldEqual, 1)
				}
			})
		})
	})
}

func TestGeneratePlan(t *testing.T) {
	Convey("Given four tier-1 and two tier-10 participants", t, func() {
		units := []model.Unit{
			solo("a", 1), solo("b", 1), solo("c", 1), solo("d", 1),
			solo("e", 10), solo("f", 10),
		}

		Convey("Then the reported plan covers the whole roster", func() {
			res := assign.Generate(units, compat.Exact, planner.Balanced)
			So(res.Plan, ShouldResemble, planner.Plan(6, planner.Balanced))
		})
	})
}

// memberShared computes the shared tiers across every participant of a pod.
func memberShared(pod model.Pod, tol compat.Tolerance) []float64 {
	var sets [][]float64
	for _, m := range pod.Members() {
		sets = append(sets, m.Tiers)
	}
	return compat.SharedTiers(sets, tol)
}

func TestGenerateDeterminism(t *testing.T) {
	Convey("Given a roster of twenty mixed participants", t, func() {
		units := randomUnits(rand.New(rand.NewPCG(7, 11)), 20, compat.Lenient)

		Convey("When generating twice", func() {
			first := assign.Generate(units, compat.Lenient, planner.Balanced)
			second := assign.Generate(units, compat.Lenient, planner.Balanced)

			Convey("Then the pods are identical", func() {
				So(podKeys(second), ShouldResemble, podKeys(first))
				So(unassignedKeys(second), ShouldResemble, unassignedKeys(first))
			})
		})

		Convey("When the input order is reversed", func() {
			reversed := make([]model.Unit, len(units))
			for i, u := range units {
				reversed[len(units)-1-i] = u
			}
			first := assign.Generate(units, compat.Lenient, planner.Balanced)
			second := assign.Generate(reversed, compat.Lenient, planner.Balanced)

			Convey("Then the pods are the same", func() {
				So(podKeys(second), ShouldResemble, podKeys(first))
			})
		})
	})

	Convey("Given the seed helper", t, func() {
		a := []model.Unit{solo("a", 1), solo("b", 2)}
		b := []model.Unit{solo("b", 2), solo("a", 1)}
		c := []model.Unit{solo("a", 1), solo("b", 3)}

		So(assign.Seed(a), ShouldEqual, assign.Seed(b))
		So(assign.Seed(a), ShouldNotEqual, assign.Seed(c))
	})
}

func TestGenerateProperties(t *testing.T) {
	Convey("Given many random rosters", t, func() {
		rng := rand.New(rand.NewPCG(42, 2024))
		modes := []planner.Mode{planner.Balanced, planner.AvoidFive}
		tols := []compat.Tolerance{compat.Exact, compat.Lenient, compat.SuperLenient}

		for round := 0; round < 60; round++ {
			mode := modes[round%len(modes)]
			tol := tols[round%len(tols)]
			units := randomUnits(rng, 3+rng.IntN(30), tol)
			total := model.TotalSize(units)

			res := assign.New(assign.WithAttempts(2)).Generate(context.Background(), units, tol, mode)

			// partition completeness and no duplicates
			seen := make(map[string]int)
			for _, p := range model.Flatten(units) {
				seen[p.ID] = 0
			}
			for _, pod := range res.Pods {
				for _, m := range pod.Members() {
					seen[m.ID]++
				}
			}
			for _, m := range model.Flatten(res.Unassigned) {
				seen[m.ID]++
			}
			So(res.AssignedCount()+res.UnassignedCount(), ShouldEqual, total)
			planned := 0
			for _, size := range res.Plan {
				planned += size
			}
			So(planned, ShouldEqual, total)
			for id, n := range seen {
				So(fmt.Sprintf("%s:%d", id, n), ShouldEqual, fmt.Sprintf("%s:1", id))
			}

			for _, pod := range res.Pods {
				// size legality
				So(planner.Allowed(pod.Size(), total, mode), ShouldBeTrue)
				// compatibility soundness across every member
				So(memberShared(pod, tol), ShouldNotBeEmpty)
				So(pod.SharedTiers, ShouldResemble, memberShared(pod, tol))
				// group atomicity: a group unit carries all of its members
				for _, u := range pod.Units {
					if c, ok := u.(*model.Collective); ok {
						So(len(pod.Members()), ShouldBeGreaterThanOrEqualTo, len(c.Participants))
					}
				}
			}
		}
	})
}

func TestSearchBudget(t *testing.T) {
	Convey("Given a tiny search budget", t, func() {
		units := []model.Unit{solo("a", 1), solo("b", 2), solo("c", 3), solo("d", 4), solo("e", 4), solo("f", 4)}

		Convey("Then the engine still returns a complete partition", func() {
			res := assign.New(assign.WithSearchBudget(1), assign.WithAttempts(1)).
				Generate(context.Background(), units, compat.Exact, planner.Balanced)
			So(res.AssignedCount()+res.UnassignedCount(), ShouldEqual, 6)
		})
	})
}

// randomUnits builds a roster of n participants with tiers in 1..10 (some
// half steps). Roughly one in four participants starts a group of two or
// three whose members play the group's anchor tier give or take tol, so
// members differ while the group stays valid under tol.
func randomUnits(rng *rand.Rand, n int, tol compat.Tolerance) []model.Unit {
	var participants []model.Participant
	add := func(group string, base float64) {
		i := len(participants)
		tiers := []float64{base}
		if rng.IntN(2) == 0 {
			tiers = append(tiers, base+0.5)
		}
		if rng.IntN(3) == 0 {
			tiers = append(tiers, base+1)
		}
		participants = append(participants, model.Participant{
			ID:      fmt.Sprintf("p%02d", i),
			Name:    fmt.Sprintf("Player %02d", i),
			Tiers:   tiers,
			Average: base,
			GroupID: group,
		})
	}

	steps := int(tol.Delta() * 2)
	for len(participants) < n {
		anchor := float64(2 + rng.IntN(8))
		remaining := n - len(participants)
		if remaining < 2 || rng.IntN(4) != 0 {
			add("", anchor)
			continue
		}
		group := fmt.Sprintf("g%02d", len(participants))
		add(group, anchor)
		for range 1 + rng.IntN(min(remaining-1, 2)) {
			offset := float64(rng.IntN(2*steps+1)-steps) / 2
			add(group, anchor+offset)
		}
	}

	units, err := flatten.Units(participants, tol)
	if err != nil {
		panic(err)
	}
	return units
}
