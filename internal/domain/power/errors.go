package power

import "errors"

// Sentinel kinds for tier resolution errors.
var (
	ErrEmptyTierSet   = errors.New("empty tier set")
	ErrInvalidTier    = errors.New("invalid tier value")
	ErrUnknownBracket = errors.New("unknown bracket label")
	ErrUnknownScale   = errors.New("unknown power scale")
)
