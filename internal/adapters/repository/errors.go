package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound      = errors.New("participant not found")
	ErrDuplicateName = errors.New("participant name already taken")
	ErrDuplicateID   = errors.New("participant id already taken")
	ErrEmptyName     = errors.New("participant name is empty")
	ErrEmptyTierSet  = errors.New("participant has no tiers")
	ErrCapacity      = errors.New("roster is full")
	ErrNothingToUndo = errors.New("nothing to undo")
)
