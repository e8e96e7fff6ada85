package service

import "errors"

// Sentinel kinds returned by the service. Domain errors from power, flatten
// and repository are passed through wrapped so callers can still match them.
var (
	ErrInvalidSettings     = errors.New("invalid generation settings")
	ErrTooManyParticipants = errors.New("too many participants")
)
