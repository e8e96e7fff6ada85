// Package assign places units into pods that honour both the size plan and
// the shared-tier constraint.
//
// Units are ordered canonically, shuffled with a seed derived from the
// participants themselves, then sorted largest first (stable, so ties keep
// shuffle order). Each planned slot is filled by a bounded depth-first search
// for a subset of remaining units whose sizes sum to the slot and whose shared
// tiers are non-empty. Slots with no such subset are skipped; whatever is left
// is reported as unassigned.
//
// Two plans are tried per ordering: one over the whole roster and one per
// compatibility component. The run that seats the most participants wins,
// earlier runs winning ties.
package assign

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/model"
	"github.com/okian/podsmith/internal/domain/planner"
	"github.com/okian/podsmith/internal/domain/report"
	"github.com/okian/podsmith/pkg/logger"
)

const (
	// DefaultSearchBudget is the default node cap per slot search.
	DefaultSearchBudget = 50_000
	// DefaultAttempts is the default number of seeded orderings.
	DefaultAttempts = 8
)

// pcgStream is the base second PCG word; the first comes from Seed.
const pcgStream = 0x9e3779b97f4a7c15

// Strategy names the plan a result was built from.
type Strategy string

const (
	StrategyGlobal    Strategy = "global"
	StrategyClustered Strategy = "clustered"
)

// Engine assigns units to pods. It holds no state between calls and is safe
// for concurrent use.
type Engine struct {
	logger   logger.Logger
	budget   int
	attempts int
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   logger.Nop(),
		budget:   DefaultSearchBudget,
		attempts: DefaultAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate runs one assignment with a default Engine.
func Generate(units []model.Unit, tol compat.Tolerance, mode planner.Mode) model.Result {
	return New().Generate(context.Background(), units, tol, mode)
}

// Generate places units into pods. It never fails: infeasible slots only grow
// the unassigned set. Identical input always yields identical pods.
func (e *Engine) Generate(ctx context.Context, units []model.Unit, tol compat.Tolerance, mode planner.Mode) model.Result {
	start := time.Now()
	total := model.TotalSize(units)

	if len(planner.Plan(total, mode)) == 0 {
		e.logger.Debug(ctx, "not enough participants for a pod", logger.Int("participants", total))
		return model.Result{Unassigned: clone(units)}
	}

	seed := Seed(units)
	var (
		best         model.Result
		bestStrategy Strategy
		bestAttempt  int
		found        bool
	)
	for attempt := 0; attempt < e.attempts; attempt++ {
		order := e.order(units, seed, attempt)
		for _, strategy := range []Strategy{StrategyGlobal, StrategyClustered} {
			res := e.run(ctx, strategy, units, order, tol, mode, total)
			if !found || res.AssignedCount() > best.AssignedCount() {
				best, bestStrategy, bestAttempt, found = res, strategy, attempt, true
			}
		}
		if best.UnassignedCount() == 0 {
			break
		}
	}

	e.logger.Info(ctx, "generation finished",
		logger.Int("participants", total),
		logger.Int("pods", len(best.Pods)),
		logger.Int("unassigned", best.UnassignedCount()),
		logger.Int("skipped_slots", len(best.Skipped)),
		logger.String("strategy", string(bestStrategy)),
		logger.Int("attempt", bestAttempt),
		logger.Duration("elapsed", time.Since(start)),
	)
	return best
}

// run executes one strategy over a fixed ordering.
func (e *Engine) run(ctx context.Context, strategy Strategy, units []model.Unit, order []int,
	tol compat.Tolerance, mode planner.Mode, total int,
) model.Result {
	placed := make([]bool, len(units))
	res := model.Result{Plan: planner.Plan(total, mode)}

	switch strategy {
	case StrategyClustered:
		for _, comp := range components(units, order, tol) {
			n := 0
			for _, idx := range comp {
				n += units[idx].Size()
			}
			e.fill(ctx, units, comp, componentPlan(n, total, mode), placed, tol, &res)
		}
	default:
		e.fill(ctx, units, order, res.Plan, placed, tol, &res)
	}

	for idx, u := range units {
		if !placed[idx] {
			res.Unassigned = append(res.Unassigned, u)
		}
	}
	return res
}

// componentPlan plans a component of n participants. With AvoidFive active
// for the whole roster a lone component of five plays as a four.
func componentPlan(n, total int, mode planner.Mode) []int {
	plan := planner.Plan(n, mode)
	for i, size := range plan {
		if !planner.Allowed(size, total, mode) {
			plan[i] = size - 1
		}
	}
	return plan
}

// fill runs the slot procedure for plan over candidates, appending pods and
// skipped slots to res.
func (e *Engine) fill(ctx context.Context, units []model.Unit, candidates, plan []int, placed []bool,
	tol compat.Tolerance, res *model.Result,
) {
	for _, size := range plan {
		remaining := make([]int, 0, len(candidates))
		for _, idx := range candidates {
			if !placed[idx] {
				remaining = append(remaining, idx)
			}
		}

		s := newSearch(units, remaining, tol, e.budget)
		chosen, shared := s.find(size)
		if chosen == nil {
			res.Skipped = append(res.Skipped, size)
			e.logger.Debug(ctx, "no feasible subset for slot",
				logger.Int("size", size),
				logger.Int("remaining", len(remaining)),
				logger.Int("nodes", s.visited),
				logger.Bool("budget_exhausted", s.exhausted),
			)
			continue
		}

		podUnits := make([]model.Unit, len(chosen))
		for i, idx := range chosen {
			placed[idx] = true
			podUnits[i] = units[idx]
		}
		res.Pods = append(res.Pods, model.Pod{
			Number:       len(res.Pods) + 1,
			Units:        podUnits,
			SharedTiers:  shared,
			AveragePower: report.AveragePower(podUnits),
		})
		e.logger.Debug(ctx, "filled slot",
			logger.Int("size", size),
			logger.Int("units", len(chosen)),
			logger.Int("nodes", s.visited),
		)
	}
}

// order returns unit indexes: canonical order, seeded shuffle, then a stable
// largest-first sort.
func (e *Engine) order(units []model.Unit, seed uint64, attempt int) []int {
	keys := make([]string, len(units))
	idx := make([]int, len(units))
	for i, u := range units {
		keys[i] = unitKey(u)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })

	rng := rand.New(rand.NewPCG(seed, pcgStream+uint64(attempt)))
	rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

	sort.SliceStable(idx, func(a, b int) bool { return units[idx[a]].Size() > units[idx[b]].Size() })
	return idx
}

func clone(units []model.Unit) []model.Unit {
	out := make([]model.Unit, len(units))
	copy(out, units)
	return out
}
