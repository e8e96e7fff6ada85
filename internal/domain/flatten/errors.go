package flatten

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for unit building errors.
var (
	ErrInvalidGroup         = errors.New("invalid group")
	ErrDuplicateParticipant = errors.New("duplicate participant id")
	ErrDuplicateName        = errors.New("duplicate participant name")
	ErrEmptyName            = errors.New("empty participant name")
	ErrEmptyTierSet         = errors.New("participant has no tiers")
)

// InvalidGroupsError lists every group whose members share no tier.
type InvalidGroupsError struct {
	Groups []string
}

func (e *InvalidGroupsError) Error() string {
	return fmt.Sprintf("%s: no shared tier for %s", ErrInvalidGroup, strings.Join(e.Groups, ", "))
}

func (e *InvalidGroupsError) Unwrap() error { return ErrInvalidGroup }
