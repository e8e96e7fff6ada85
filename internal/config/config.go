// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"

	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/planner"
	"github.com/okian/podsmith/internal/domain/power"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Tolerance is the default compatibility tolerance: exact, lenient, super_lenient.
	Tolerance string `koanf:"tolerance"`

	// PlanMode is the default pod size plan mode: balanced, avoid_five.
	PlanMode string `koanf:"plan_mode"`

	// PowerScale is the default tier scale: numeric, bracket.
	PowerScale string `koanf:"power_scale"`

	// SearchBudget caps the nodes visited per pod slot search.
	SearchBudget int `koanf:"search_budget"`

	// MaxParticipants caps the roster size.
	MaxParticipants int `koanf:"max_participants"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		Tolerance:       compat.Exact.String(),
		PlanMode:        planner.Balanced.String(),
		PowerScale:      power.Numeric.String(),
		SearchBudget:    50_000,
		MaxParticipants: 256,
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := compat.ParseTolerance(c.Tolerance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := planner.ParseMode(c.PlanMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := power.ParseScale(c.PowerScale); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.SearchBudget <= 0 {
		return fmt.Errorf("%w: search_budget must be positive", ErrInvalidConfig)
	}
	if c.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", ErrInvalidConfig)
	}
	return nil
}
