package assign

import (
	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/model"
)

// search looks for one subset of candidates whose sizes sum to a target and
// whose members share at least one tier. Sharing is judged on each member's
// own tiers, never on a group's merged set, so tolerance is applied once.
// Candidates are visited in order, so earlier (larger, then earlier-shuffled)
// units are preferred.
type search struct {
	units      []model.Unit
	candidates []int
	suffix     []int // suffix[i] = total size of candidates[i:]
	tol        compat.Tolerance
	budget     int

	visited   int
	exhausted bool

	chosen []int
	sets   [][]float64 // one entry per chosen member
}

func newSearch(units []model.Unit, candidates []int, tol compat.Tolerance, budget int) *search {
	suffix := make([]int, len(candidates)+1)
	for i := len(candidates) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + units[candidates[i]].Size()
	}
	return &search{
		units:      units,
		candidates: candidates,
		suffix:     suffix,
		tol:        tol,
		budget:     budget,
	}
}

// find returns the chosen unit indexes and their shared tiers, or nil when
// no subset exists or the budget ran out.
func (s *search) find(target int) ([]int, []float64) {
	if target <= 0 || s.suffix[0] < target {
		return nil, nil
	}
	shared := s.dfs(0, target)
	if shared == nil {
		return nil, nil
	}
	out := make([]int, len(s.chosen))
	copy(out, s.chosen)
	return out, shared
}

func (s *search) dfs(start, need int) []float64 {
	if need == 0 {
		return compat.SharedTiers(s.sets, s.tol)
	}
	for i := start; i < len(s.candidates); i++ {
		if s.suffix[i] < need {
			return nil
		}
		if s.visited >= s.budget {
			s.exhausted = true
			return nil
		}
		s.visited++

		u := s.units[s.candidates[i]]
		if u.Size() > need {
			continue
		}
		depth := len(s.sets)
		s.sets = append(s.sets, memberTiers(u)...)
		if len(compat.SharedTiers(s.sets, s.tol)) > 0 {
			s.chosen = append(s.chosen, s.candidates[i])
			if shared := s.dfs(i+1, need-u.Size()); shared != nil {
				return shared
			}
			s.chosen = s.chosen[:len(s.chosen)-1]
		}
		s.sets = s.sets[:depth]
	}
	return nil
}
