// Package model contains domain models passed between the engine layers.
package model

// Participant is a validated player with a non-empty tier set.
type Participant struct {
	ID      string
	Name    string
	Tiers   []float64 // sorted, deduplicated
	Labels  []string  // display label per tier
	Average float64   // mean of Tiers rounded to 0.5
	GroupID string    // empty when the participant plays solo
}

// Unit is what the assignment engine places: a lone participant or an atomic
// group. The engine only ever sees this capability set.
type Unit interface {
	// Key identifies the unit (participant id or group id).
	Key() string
	Size() int
	TierSet() []float64
	AverageTier() float64
	// Members returns the participants the unit stands for, in declared order.
	Members() []Participant
}

// Individual is a participant playing without a group.
type Individual struct {
	Participant Participant
}

var _ Unit = (*Individual)(nil)

func (i *Individual) Key() string            { return i.Participant.ID }
func (i *Individual) Size() int              { return 1 }
func (i *Individual) TierSet() []float64     { return i.Participant.Tiers }
func (i *Individual) AverageTier() float64   { return i.Participant.Average }
func (i *Individual) Members() []Participant { return []Participant{i.Participant} }

// Collective is a group flattened into a single unit. Tiers holds the shared
// tiers of all members under the tolerance it was built with.
type Collective struct {
	GroupID      string
	Participants []Participant
	Tiers        []float64
	Average      float64
}

var _ Unit = (*Collective)(nil)

func (c *Collective) Key() string            { return c.GroupID }
func (c *Collective) Size() int              { return len(c.Participants) }
func (c *Collective) TierSet() []float64     { return c.Tiers }
func (c *Collective) AverageTier() float64   { return c.Average }
func (c *Collective) Members() []Participant { return c.Participants }

// Pod is a finalized table of units.
type Pod struct {
	Number       int // 1-based, in creation order
	Units        []Unit
	SharedTiers  []float64
	AveragePower float64
}

// Size returns the participant count of the pod.
func (p Pod) Size() int {
	return TotalSize(p.Units)
}

// Members returns every participant in the pod, groups expanded in place.
func (p Pod) Members() []Participant {
	return Flatten(p.Units)
}

// Result is the outcome of one generation.
type Result struct {
	Pods       []Pod
	Unassigned []Unit
	// Plan is the size plan for the whole roster. Its sizes sum to the
	// participant count.
	Plan []int
	// Skipped lists slot sizes that no feasible subset could fill. Under the
	// clustered strategy these are slots of per-component plans.
	Skipped []int
}

// AssignedCount returns the number of participants placed in pods.
func (r Result) AssignedCount() int {
	n := 0
	for _, p := range r.Pods {
		n += p.Size()
	}
	return n
}

// UnassignedCount returns the number of participants left over.
func (r Result) UnassignedCount() int {
	return TotalSize(r.Unassigned)
}

// TotalSize sums unit sizes.
func TotalSize(units []Unit) int {
	n := 0
	for _, u := range units {
		n += u.Size()
	}
	return n
}

// Flatten expands units into their participants.
func Flatten(units []Unit) []Participant {
	out := make([]Participant, 0, TotalSize(units))
	for _, u := range units {
		out = append(out, u.Members()...)
	}
	return out
}

// TierSets collects the tier set of each unit.
func TierSets(units []Unit) [][]float64 {
	sets := make([][]float64, len(units))
	for i, u := range units {
		sets[i] = u.TierSet()
	}
	return sets
}
