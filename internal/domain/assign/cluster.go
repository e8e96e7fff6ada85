package assign

import (
	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/model"
)

// components splits units into groups connected by pairwise compatibility of
// their members. Units in different components can never share a pod. Components are
// returned in the order their first member appears in order, and each lists
// its members in that same order.
func components(units []model.Unit, order []int, tol compat.Tolerance) [][]int {
	parent := make([]int, len(units))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	members := make([][][]float64, len(units))
	for i, u := range units {
		members[i] = memberTiers(u)
	}

	for i := 0; i < len(units); i++ {
		for j := i + 1; j < len(units); j++ {
			if find(i) == find(j) {
				continue
			}
			pair := append(append([][]float64{}, members[i]...), members[j]...)
			if len(compat.SharedTiers(pair, tol)) > 0 {
				parent[find(j)] = find(i)
			}
		}
	}

	slot := make(map[int]int)
	var out [][]int
	for _, idx := range order {
		root := find(idx)
		k, ok := slot[root]
		if !ok {
			k = len(out)
			slot[root] = k
			out = append(out, nil)
		}
		out[k] = append(out[k], idx)
	}
	return out
}

// memberTiers returns the declared tiers of each member of u.
func memberTiers(u model.Unit) [][]float64 {
	ms := u.Members()
	out := make([][]float64, len(ms))
	for i, m := range ms {
		out[i] = m.Tiers
	}
	return out
}
