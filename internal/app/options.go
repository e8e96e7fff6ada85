package service

import (
	"github.com/okian/podsmith/internal/adapters/repository"
	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/planner"
	"github.com/okian/podsmith/internal/domain/power"
	"github.com/okian/podsmith/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the default in-memory roster.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.roster = store
		}
	}
}

// WithTolerance sets the default compatibility tolerance.
func WithTolerance(t compat.Tolerance) Option {
	return func(s *Service) {
		s.tolerance = t
	}
}

// WithPlanMode sets the default pod size plan mode.
func WithPlanMode(m planner.Mode) Option {
	return func(s *Service) {
		s.mode = m
	}
}

// WithScale sets the tier scale roster entries are resolved on.
func WithScale(sc power.Scale) Option {
	return func(s *Service) {
		s.scale = sc
	}
}

// WithSearchBudget caps the nodes the engine visits per pod slot.
func WithSearchBudget(nodes int) Option {
	return func(s *Service) {
		if nodes > 0 {
			s.searchBudget = nodes
		}
	}
}

// WithMaxParticipants bounds both the roster and preview requests.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParticipants = n
		}
	}
}
