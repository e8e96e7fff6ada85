// Package planner splits a participant count into pod sizes.
package planner

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unrecognised names.
var ErrUnknownMode = errors.New("unknown plan mode")

// Mode selects the allowed pod sizes.
type Mode int

const (
	// Balanced uses pods of 3, 4 and 5.
	Balanced Mode = iota
	// AvoidFive uses pods of 3 and 4 once the count allows it (9 and up).
	AvoidFive
)

// MinPodSize is the smallest legal pod.
const MinPodSize = 3

// avoidFiveFloor is the smallest count that can be split without a pod of 5.
const avoidFiveFloor = 9

var balancedFixed = map[int][]int{
	3:  {3},
	4:  {4},
	5:  {5},
	6:  {3, 3},
	7:  {4, 3},
	8:  {4, 4},
	9:  {3, 3, 3},
	10: {5, 5},
}

var avoidFiveFixed = map[int][]int{
	9:  {3, 3, 3},
	10: {4, 3, 3},
	11: {4, 4, 3},
	12: {4, 4, 4},
	13: {4, 3, 3, 3},
	14: {4, 4, 3, 3},
	15: {4, 4, 4, 3},
}

func (m Mode) String() string {
	if m == AvoidFive {
		return "avoid_five"
	}
	return "balanced"
}

// ParseMode accepts balanced and avoid_five.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "balanced":
		return Balanced, nil
	case "avoid_five", "avoid-five", "avoidfive", "no_five":
		return AvoidFive, nil
	default:
		return Balanced, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Allowed reports whether size is a legal pod size for n participants in mode.
func Allowed(size, n int, m Mode) bool {
	if m == AvoidFive && n >= avoidFiveFloor {
		return size == 3 || size == 4
	}
	return size >= 3 && size <= 5
}

// Plan returns pod sizes summing to n. It returns nil when n < 3.
func Plan(n int, m Mode) []int {
	if n < MinPodSize {
		return nil
	}
	if m == AvoidFive && n >= avoidFiveFloor {
		return avoidFive(n)
	}
	return balanced(n)
}

func balanced(n int) []int {
	if fixed, ok := balancedFixed[n]; ok {
		return clone(fixed)
	}
	q, r := n/4, n%4
	var sizes []int
	switch r {
	case 0:
		sizes = fours(q)
	case 1:
		sizes = append(fours(q-2), 5, 4)
	case 2:
		sizes = append(fours(q-1), 3, 3)
	default:
		sizes = append(fours(q), 3)
	}
	return sizes
}

func avoidFive(n int) []int {
	if fixed, ok := avoidFiveFixed[n]; ok {
		return clone(fixed)
	}
	var sizes []int
	remaining := n
	for remaining >= 7 {
		sizes = append(sizes, 4)
		remaining -= 4
	}
	switch remaining {
	case 6:
		sizes = append(sizes, 3, 3)
	case 5:
		// 4+5 would need a five; 3+3+3 covers the same nine.
		sizes = append(sizes[:len(sizes)-1], 3, 3, 3)
	case 4:
		sizes = append(sizes, 4)
	case 3:
		sizes = append(sizes, 3)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

func fours(k int) []int {
	out := make([]int, 0, k+2)
	for i := 0; i < k; i++ {
		out = append(out, 4)
	}
	return out
}

func clone(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}
