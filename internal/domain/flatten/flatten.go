// Package flatten collapses declared groups into single engine units.
package flatten

import (
	"fmt"
	"strings"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// Group builds a Collective from members. Its tier set is the shared tier set
// of the members, so a group is only as flexible as its most restrictive
// member. Returns ErrInvalidGroup when nothing is shared.
func Group(id string, members []model.Participant, tol compat.Tolerance) (*model.Collective, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s has no members", ErrInvalidGroup, id)
	}
	sets := make([][]float64, len(members))
	averages := make([]float64, len(members))
	for i, m := range members {
		sets[i] = m.Tiers
		averages[i] = m.Average
	}
	shared := compat.SharedTiers(sets, tol)
	if len(shared) == 0 {
		return nil, &InvalidGroupsError{Groups: []string{id}}
	}
	ps := make([]model.Participant, len(members))
	copy(ps, members)
	return &model.Collective{
		GroupID:      id,
		Participants: ps,
		Tiers:        shared,
		Average:      stat.Mean(averages, nil),
	}, nil
}

// Units validates participants and converts them into engine units. Members
// of the same group become one Collective placed where its first member
// appeared; everyone else becomes an Individual. Every infeasible group is
// reported at once.
func Units(participants []model.Participant, tol compat.Tolerance) ([]model.Unit, error) {
	if err := validate(participants); err != nil {
		return nil, err
	}

	members := make(map[string][]model.Participant)
	var order []string
	for _, p := range participants {
		if p.GroupID == "" {
			order = append(order, "p:"+p.ID)
			continue
		}
		if _, ok := members[p.GroupID]; !ok {
			order = append(order, "g:"+p.GroupID)
		}
		members[p.GroupID] = append(members[p.GroupID], p)
	}

	byID := make(map[string]model.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	units := make([]model.Unit, 0, len(order))
	var invalid []string
	for _, key := range order {
		kind, id := key[:2], key[2:]
		if kind == "p:" {
			units = append(units, &model.Individual{Participant: byID[id]})
			continue
		}
		c, err := Group(id, members[id], tol)
		if err != nil {
			invalid = append(invalid, id)
			continue
		}
		units = append(units, c)
	}
	if len(invalid) > 0 {
		return nil, &InvalidGroupsError{Groups: invalid}
	}
	return units, nil
}

func validate(participants []model.Participant) error {
	ids := make(map[string]struct{}, len(participants))
	names := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return fmt.Errorf("%w: participant %s", ErrEmptyName, p.ID)
		}
		if len(p.Tiers) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyTierSet, p.Name)
		}
		if _, ok := ids[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.ID)
		}
		if _, ok := names[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
		}
		ids[p.ID] = struct{}{}
		names[name] = struct{}{}
	}
	return nil
}
