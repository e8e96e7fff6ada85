package podcheck

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/planner"
	"github.com/okian/podsmith/internal/domain/power"
	"github.com/okian/podsmith/internal/domain/report"
	"github.com/okian/podsmith/pkg/logger"
)

// verifyOutcomes checks every accepted report and returns the violations.
func verifyOutcomes(ctx context.Context, outcomes []Outcome, stats *Stats) []Violation {
	logger.Get().Info(ctx, "verifying outcomes", logger.Int("outcomes", len(outcomes)))

	var violations []Violation
	for _, out := range outcomes {
		switch {
		case out.Err != nil:
			continue
		case out.Status != http.StatusOK:
			violations = append(violations, Violation{
				RosterID: out.Roster.RosterID,
				Property: PropertyUnexpected,
				Detail:   fmt.Sprintf("status %d code %q", out.Status, out.Code),
			})
			continue
		case out.Report == nil:
			continue
		}
		stats.PodsChecked += len(out.Report.Pods)
		stats.Participants += len(out.Roster.Participants)
		stats.Assigned += out.Report.AssignedCount
		violations = append(violations, Verify(out.Roster, *out.Report)...)
	}
	stats.Violations = len(violations)

	if len(violations) == 0 {
		logger.Get().Info(ctx, "all properties hold")
	}
	for _, v := range violations {
		logger.Get().Warn(ctx, "property violated",
			logger.String("rosterID", v.RosterID),
			logger.String("property", v.Property),
			logger.String("detail", v.Detail))
	}
	return violations
}

// Verify checks one report against the roster it was produced from:
// every participant appears exactly once, groups stay whole, pod sizes are
// legal for the roster size and every pod's shared tiers are playable by each
// of its members.
func Verify(r Roster, rep report.Report) []Violation {
	var out []Violation
	add := func(property, format string, args ...any) {
		out = append(out, Violation{RosterID: r.RosterID, Property: property, Detail: fmt.Sprintf(format, args...)})
	}

	scale, err := power.ParseScale(r.Scale)
	if err != nil {
		add(PropertyUnexpected, "scale: %v", err)
		return out
	}
	tol, err := compat.ParseTolerance(r.Tolerance)
	if err != nil {
		add(PropertyUnexpected, "tolerance: %v", err)
		return out
	}
	tol = compat.Effective(tol, scale)
	mode, err := planner.ParseMode(r.Mode)
	if err != nil {
		add(PropertyUnexpected, "mode: %v", err)
		return out
	}

	tiers := make(map[string][]float64, len(r.Participants))
	groupOf := make(map[string]string, len(r.Participants))
	groupSize := make(map[string]int)
	for _, p := range r.Participants {
		prof, err := power.Resolve(scale, p.Tiers)
		if err != nil {
			add(PropertyUnexpected, "participant %s: %v", p.ID, err)
			return out
		}
		tiers[p.ID] = prof.Tiers
		groupOf[p.ID] = p.GroupID
		if p.GroupID != "" {
			groupSize[p.GroupID]++
		}
	}

	seen := make(map[string]int, len(r.Participants))
	checkUnit := func(u report.Unit) {
		for _, m := range u.Members {
			seen[m.ID]++
			if _, ok := tiers[m.ID]; !ok {
				add(PropertyPartition, "unknown participant %s", m.ID)
			}
		}
		if !u.Group {
			if len(u.Members) != 1 {
				add(PropertyGroupAtomic, "solo unit %s has %d members", u.Key, len(u.Members))
			} else if g := groupOf[u.Members[0].ID]; g != "" {
				add(PropertyGroupAtomic, "member %s of %s seated alone", u.Members[0].ID, g)
			}
			return
		}
		if len(u.Members) != groupSize[u.Key] {
			add(PropertyGroupAtomic, "group %s has %d of %d members", u.Key, len(u.Members), groupSize[u.Key])
		}
		for _, m := range u.Members {
			if groupOf[m.ID] != u.Key {
				add(PropertyGroupAtomic, "participant %s not in group %s", m.ID, u.Key)
			}
		}
	}

	n := len(r.Participants)
	for i, pod := range rep.Pods {
		if pod.Number != i+1 {
			add(PropertyNumbering, "pod at %d numbered %d", i+1, pod.Number)
		}
		size := 0
		var members []report.Member
		for _, u := range pod.Units {
			checkUnit(u)
			size += len(u.Members)
			members = append(members, u.Members...)
		}
		if size != pod.Size || !planner.Allowed(size, n, mode) {
			add(PropertySize, "pod %d has %d participants (reported %d)", pod.Number, size, pod.Size)
		}
		if len(pod.SharedTiers) == 0 {
			add(PropertyCompatibility, "pod %d has no shared tier", pod.Number)
		}
		for _, t := range pod.SharedTiers {
			for _, m := range members {
				if !covered(t, tiers[m.ID], tol) {
					add(PropertyCompatibility, "pod %d tier %v not playable by %s", pod.Number, t, m.ID)
				}
			}
		}
	}
	for _, u := range rep.Unassigned {
		checkUnit(u)
	}

	for id := range tiers {
		if seen[id] != 1 {
			add(PropertyPartition, "participant %s appears %d times", id, seen[id])
		}
	}
	if rep.AssignedCount+rep.UnassignedCount != n {
		add(PropertyPartition, "assigned %d + unassigned %d != %d", rep.AssignedCount, rep.UnassignedCount, n)
	}
	return out
}

func covered(t float64, set []float64, tol compat.Tolerance) bool {
	for _, s := range set {
		if compat.Within(t, s, tol) {
			return true
		}
	}
	return false
}
