// Package repository holds the editable participant roster.
package repository

import (
	"context"

	"github.com/okian/podsmith/internal/domain/model"
)

// Store provides read/write access to the roster the engine snapshots from.
type Store interface {
	// Add stores p. A uuid is assigned when p.ID is empty. Names must be
	// unique (case-insensitive) and tiers non-empty.
	Add(ctx context.Context, p model.Participant) (model.Participant, error)

	// Get returns the participant with id or ErrNotFound.
	Get(ctx context.Context, id string) (model.Participant, error)

	// Remove deletes the participant with id or returns ErrNotFound.
	Remove(ctx context.Context, id string) error

	// SetGroup moves a participant into groupID; an empty groupID makes the
	// participant play solo.
	SetGroup(ctx context.Context, id, groupID string) (model.Participant, error)

	// List returns participants in insertion order.
	List(ctx context.Context) []model.Participant

	// Count returns the number of participants.
	Count(ctx context.Context) int

	// Reset clears the roster, keeping the previous contents as the undo
	// snapshot. Returns the number of participants removed.
	Reset(ctx context.Context) int

	// Undo restores the last Reset snapshot. Returns ErrNothingToUndo when
	// there is none.
	Undo(ctx context.Context) (int, error)
}
