// Package compat decides whether tier sets can share a pod under a tolerance
// policy and computes the tiers they have in common.
package compat

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/podsmith/internal/domain/power"
)

// Epsilon absorbs floating error in every tier comparison.
const Epsilon = 0.01

// ErrUnknownTolerance is returned by ParseTolerance for unrecognised names.
var ErrUnknownTolerance = errors.New("unknown tolerance")

// Tolerance is the maximum allowed gap between two tiers for them to count
// as the same table.
type Tolerance int

const (
	Exact Tolerance = iota
	Lenient
	SuperLenient
)

// Delta returns the numeric gap the tolerance allows.
func (t Tolerance) Delta() float64 {
	switch t {
	case Lenient:
		return 0.5
	case SuperLenient:
		return 1.0
	default:
		return 0
	}
}

func (t Tolerance) String() string {
	switch t {
	case Lenient:
		return "lenient"
	case SuperLenient:
		return "super_lenient"
	default:
		return "exact"
	}
}

// ParseTolerance accepts exact, lenient and super_lenient (also the numeric
// deltas 0, 0.5 and 1).
func ParseTolerance(s string) (Tolerance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "0":
		return Exact, nil
	case "lenient", "0.5":
		return Lenient, nil
	case "super_lenient", "super-lenient", "superlenient", "1", "1.0":
		return SuperLenient, nil
	default:
		return Exact, fmt.Errorf("%w: %q", ErrUnknownTolerance, s)
	}
}

// Effective returns the tolerance that actually applies on a scale. Bracket
// tiers are discrete so they only ever match exactly.
func Effective(t Tolerance, scale power.Scale) Tolerance {
	if scale == power.Bracket {
		return Exact
	}
	return t
}

// Within reports whether x and y are the same tier under t.
func Within(x, y float64, t Tolerance) bool {
	d := math.Abs(x - y)
	if d < Epsilon {
		return true
	}
	delta := t.Delta()
	return delta > 0 && d <= delta+Epsilon
}

// Compatible reports whether some tier of a matches some tier of b.
func Compatible(a, b []float64, t Tolerance) bool {
	for _, x := range a {
		for _, y := range b {
			if Within(x, y, t) {
				return true
			}
		}
	}
	return false
}

// SharedTiers returns every tier, drawn from the union of the given sets,
// that each set can play within tolerance. An empty result means the sets
// cannot share a pod.
func SharedTiers(sets [][]float64, t Tolerance) []float64 {
	if len(sets) == 0 {
		return nil
	}
	var union []float64
	for _, s := range sets {
		union = append(union, s...)
	}
	candidates := power.Normalize(union)

	shared := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		if coveredByAll(c, sets, t) {
			shared = append(shared, c)
		}
	}
	sort.Float64s(shared)
	return shared
}

func coveredByAll(tier float64, sets [][]float64, t Tolerance) bool {
	for _, s := range sets {
		if !covers(s, tier, t) {
			return false
		}
	}
	return true
}

func covers(set []float64, tier float64, t Tolerance) bool {
	for _, x := range set {
		if Within(x, tier, t) {
			return true
		}
	}
	return false
}
