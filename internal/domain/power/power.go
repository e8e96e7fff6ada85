// Package power resolves a participant's declared tiers into a canonical,
// sorted tier set and an average tier.
package power

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Scale selects how raw tier selections are interpreted.
type Scale int

const (
	// Numeric keeps declared values as-is, half-steps included.
	Numeric Scale = iota
	// Bracket maps the discrete labels 1-4 and "top" onto the numeric space.
	Bracket
)

// TopBracket is the numeric value the "top" bracket label maps to.
const TopBracket = 10.0

// dedupeEpsilon treats tiers closer than this as the same tier.
const dedupeEpsilon = 0.01

var bracketValues = map[string]float64{
	"1":   1,
	"2":   2,
	"3":   3,
	"4":   4,
	"top": TopBracket,
}

// String returns the config name of the scale.
func (s Scale) String() string {
	switch s {
	case Bracket:
		return "bracket"
	default:
		return "numeric"
	}
}

// ParseScale parses "numeric" or "bracket" (case-insensitive).
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "numeric", "power":
		return Numeric, nil
	case "bracket", "brackets":
		return Bracket, nil
	default:
		return Numeric, fmt.Errorf("%w: %q", ErrUnknownScale, s)
	}
}

// Profile is the resolved form of a participant's tier selection.
type Profile struct {
	// Tiers is sorted ascending and deduplicated.
	Tiers []float64
	// Labels holds the display label for each entry of Tiers.
	Labels []string
	// Average is the mean of Tiers rounded to the nearest 0.5.
	Average float64
}

// Resolve turns a raw selection into a Profile. Numeric selections are parsed
// as floats; bracket selections must be one of 1, 2, 3, 4 or "top".
func Resolve(scale Scale, raw []string) (Profile, error) {
	values := make([]float64, 0, len(raw))
	for _, r := range raw {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		switch scale {
		case Bracket:
			v, ok := bracketValues[r]
			if !ok {
				return Profile{}, fmt.Errorf("%w: %q", ErrUnknownBracket, r)
			}
			values = append(values, v)
		default:
			v, err := strconv.ParseFloat(r, 64)
			if err != nil {
				return Profile{}, fmt.Errorf("%w: %q", ErrInvalidTier, r)
			}
			values = append(values, v)
		}
	}
	p, err := ResolveValues(values)
	if err != nil {
		return Profile{}, err
	}
	for i, t := range p.Tiers {
		p.Labels[i] = Label(scale, t)
	}
	return p, nil
}

// ResolveValues builds a Profile from numeric tiers.
func ResolveValues(values []float64) (Profile, error) {
	if len(values) == 0 {
		return Profile{}, ErrEmptyTierSet
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return Profile{}, fmt.Errorf("%w: %v", ErrInvalidTier, v)
		}
	}
	tiers := Normalize(values)
	labels := make([]string, len(tiers))
	for i, t := range tiers {
		labels[i] = Label(Numeric, t)
	}
	return Profile{
		Tiers:   tiers,
		Labels:  labels,
		Average: RoundHalf(stat.Mean(tiers, nil)),
	}, nil
}

// Normalize returns a sorted copy of tiers with near-duplicates removed.
func Normalize(tiers []float64) []float64 {
	out := make([]float64, len(tiers))
	copy(out, tiers)
	sort.Float64s(out)
	uniq := out[:0]
	for _, t := range out {
		if len(uniq) > 0 && math.Abs(uniq[len(uniq)-1]-t) < dedupeEpsilon {
			continue
		}
		uniq = append(uniq, t)
	}
	return uniq
}

// RoundHalf rounds x to the nearest 0.5.
func RoundHalf(x float64) float64 {
	return math.Round(x*2) / 2
}

// Label renders a tier for display on the given scale.
func Label(scale Scale, tier float64) string {
	if scale == Bracket && math.Abs(tier-TopBracket) < dedupeEpsilon {
		return "top"
	}
	return strconv.FormatFloat(tier, 'f', -1, 64)
}
