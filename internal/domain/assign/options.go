package assign

import "github.com/okian/podsmith/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-slot diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSearchBudget caps the number of search nodes explored per pod slot.
func WithSearchBudget(nodes int) Option {
	return func(e *Engine) {
		if nodes > 0 {
			e.budget = nodes
		}
	}
}

// WithAttempts sets how many seeded orderings are tried. The first ordering
// that assigns the most participants wins.
func WithAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.attempts = n
		}
	}
}
