// Package report turns engine results into the per-pod summaries shown to
// players: shared tiers, average power and which declared tiers are in use.
package report

import (
	"math"
	"strings"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/model"
	"github.com/okian/podsmith/internal/domain/power"
	"gonum.org/v1/gonum/stat"
)

// TierFlag is one declared tier of a member.
type TierFlag struct {
	Tier  float64 `json:"tier"`
	Label string  `json:"label"`
	InUse bool    `json:"in_use"`
}

// Member is a participant as displayed inside a pod or the unassigned list.
type Member struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	GroupID string     `json:"group_id,omitempty"`
	Average float64    `json:"average"`
	Tiers   []TierFlag `json:"tiers"`
}

// Unit keeps group members nested under their group.
type Unit struct {
	Key     string   `json:"key"`
	Group   bool     `json:"group"`
	Members []Member `json:"members"`
}

// Pod is the display summary of one pod.
type Pod struct {
	Number       int       `json:"number"`
	Size         int       `json:"size"`
	Units        []Unit    `json:"units"`
	SharedTiers  []float64 `json:"shared_tiers"`
	Shared       string    `json:"shared"`
	AveragePower float64   `json:"average_power"`
}

// Report is the full display form of a generation.
type Report struct {
	Pods            []Pod  `json:"pods"`
	Unassigned      []Unit `json:"unassigned"`
	Plan            []int  `json:"plan"`
	Skipped         []int  `json:"skipped,omitempty"`
	AssignedCount   int    `json:"assigned_count"`
	UnassignedCount int    `json:"unassigned_count"`
	Tolerance       string `json:"tolerance"`
	Scale           string `json:"scale"`
}

// AveragePower is the mean AverageTier of every participant in units, rounded
// to one decimal. Groups count once per member.
func AveragePower(units []model.Unit) float64 {
	members := model.Flatten(units)
	if len(members) == 0 {
		return 0
	}
	avgs := make([]float64, len(members))
	for i, m := range members {
		avgs[i] = m.Average
	}
	return math.Round(stat.Mean(avgs, nil)*10) / 10
}

// Display renders shared tiers: a single tier as-is, a run of whole steps as
// "lo-hi", anything else as a comma separated list.
func Display(tiers []float64, scale power.Scale) string {
	switch len(tiers) {
	case 0:
		return ""
	case 1:
		return power.Label(scale, tiers[0])
	}
	if contiguous(tiers) {
		return power.Label(scale, tiers[0]) + "-" + power.Label(scale, tiers[len(tiers)-1])
	}
	labels := make([]string, len(tiers))
	for i, t := range tiers {
		labels[i] = power.Label(scale, t)
	}
	return strings.Join(labels, ", ")
}

func contiguous(tiers []float64) bool {
	for i := 1; i < len(tiers); i++ {
		if math.Abs(tiers[i]-tiers[i-1]-1) >= compat.Epsilon {
			return false
		}
	}
	return true
}

// Highlights flags each declared tier of p that is within tolerance of a
// shared tier.
func Highlights(p model.Participant, shared []float64, tol compat.Tolerance, scale power.Scale) []TierFlag {
	flags := make([]TierFlag, len(p.Tiers))
	for i, t := range p.Tiers {
		label := power.Label(scale, t)
		if i < len(p.Labels) && p.Labels[i] != "" {
			label = p.Labels[i]
		}
		flags[i] = TierFlag{Tier: t, Label: label, InUse: inSet(t, shared, tol)}
	}
	return flags
}

func inSet(t float64, set []float64, tol compat.Tolerance) bool {
	for _, s := range set {
		if compat.Within(t, s, tol) {
			return true
		}
	}
	return false
}

// Build produces the display report for res.
func Build(res model.Result, tol compat.Tolerance, scale power.Scale) Report {
	r := Report{
		Pods:            make([]Pod, 0, len(res.Pods)),
		Unassigned:      make([]Unit, 0, len(res.Unassigned)),
		Plan:            res.Plan,
		Skipped:         res.Skipped,
		AssignedCount:   res.AssignedCount(),
		UnassignedCount: res.UnassignedCount(),
		Tolerance:       tol.String(),
		Scale:           scale.String(),
	}
	for _, p := range res.Pods {
		pod := Pod{
			Number:       p.Number,
			Size:         p.Size(),
			Units:        make([]Unit, 0, len(p.Units)),
			SharedTiers:  p.SharedTiers,
			Shared:       Display(p.SharedTiers, scale),
			AveragePower: p.AveragePower,
		}
		for _, u := range p.Units {
			pod.Units = append(pod.Units, unit(u, p.SharedTiers, tol, scale))
		}
		r.Pods = append(r.Pods, pod)
	}
	for _, u := range res.Unassigned {
		r.Unassigned = append(r.Unassigned, unit(u, nil, tol, scale))
	}
	return r
}

func unit(u model.Unit, shared []float64, tol compat.Tolerance, scale power.Scale) Unit {
	_, isGroup := u.(*model.Collective)
	out := Unit{Key: u.Key(), Group: isGroup}
	for _, m := range u.Members() {
		out.Members = append(out.Members, Member{
			ID:      m.ID,
			Name:    m.Name,
			GroupID: m.GroupID,
			Average: m.Average,
			Tiers:   Highlights(m, shared, tol, scale),
		})
	}
	return out
}
