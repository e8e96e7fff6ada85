// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/podsmith/internal/adapters/repository"
	"github.com/okian/podsmith/internal/domain/assign"
	"github.com/okian/podsmith/internal/domain/compat"
	"github.com/okian/podsmith/internal/domain/flatten"
	"github.com/okian/podsmith/internal/domain/model"
	"github.com/okian/podsmith/internal/domain/planner"
	"github.com/okian/podsmith/internal/domain/power"
	"github.com/okian/podsmith/internal/domain/report"
	"github.com/okian/podsmith/pkg/logger"
	"github.com/okian/podsmith/pkg/metrics"
)

// Generation sources, used as the metrics label.
const (
	SourceRoster  = "roster"
	SourcePreview = "preview"
	SourceCLI     = "cli"
)

const defaultMaxParticipants = 256

// ParticipantInput is a participant as submitted by a caller, before tier
// resolution.
type ParticipantInput struct {
	ID      string
	Name    string
	Tiers   []string
	GroupID string
}

// Settings overrides the service defaults for one generation. Empty fields
// keep the defaults.
type Settings struct {
	Tolerance string
	Mode      string
	Scale     string
}

// PreviewRequest is a stateless generation over the given participants.
type PreviewRequest struct {
	Participants []ParticipantInput
	Settings
}

// Service implements the API dependencies for the pod assignment system.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster repository.Store
	engine *assign.Engine

	// Configuration
	tolerance       compat.Tolerance
	mode            planner.Mode
	scale           power.Scale
	searchBudget    int
	maxParticipants int

	// State
	started     bool
	generations int
	last        *report.Report

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		tolerance:       compat.Exact,
		mode:            planner.Balanced,
		scale:           power.Numeric,
		searchBudget:    assign.DefaultSearchBudget,
		maxParticipants: defaultMaxParticipants,
		logger:          logger.GetOrNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.roster == nil {
		s.roster = repository.NewMemoryStore(repository.WithMaxParticipants(s.maxParticipants))
	}
	s.engine = assign.New(
		assign.WithLogger(s.logger.Named("engine")),
		assign.WithSearchBudget(s.searchBudget),
	)
	return s
}

// Start marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.logger.Info(ctx, "pod service started",
		logger.String("tolerance", s.tolerance.String()),
		logger.String("plan_mode", s.mode.String()),
		logger.String("scale", s.scale.String()),
		logger.Int("search_budget", s.searchBudget),
		logger.Int("max_participants", s.maxParticipants),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "pod service stopped")
}

// AddParticipant resolves the tiers of in on the service scale and stores it.
func (s *Service) AddParticipant(ctx context.Context, in ParticipantInput) (model.Participant, error) {
	p, err := resolve(in, s.scale)
	if err != nil {
		return model.Participant{}, err
	}
	stored, err := s.roster.Add(ctx, p)
	if err != nil {
		return model.Participant{}, err
	}
	s.logger.Debug(ctx, "participant added",
		logger.String("id", stored.ID),
		logger.String("name", stored.Name),
		logger.Float64("average", stored.Average),
	)
	return stored, nil
}

// RemoveParticipant deletes a participant from the roster.
func (s *Service) RemoveParticipant(ctx context.Context, id string) error {
	return s.roster.Remove(ctx, id)
}

// SetGroup moves a participant into groupID. An empty groupID clears it.
func (s *Service) SetGroup(ctx context.Context, id, groupID string) (model.Participant, error) {
	return s.roster.SetGroup(ctx, id, groupID)
}

// Participants lists the roster in insertion order.
func (s *Service) Participants(ctx context.Context) []model.Participant {
	return s.roster.List(ctx)
}

// Reset clears the roster and keeps it as the undo snapshot.
func (s *Service) Reset(ctx context.Context) int {
	n := s.roster.Reset(ctx)
	s.logger.Info(ctx, "roster reset", logger.Int("removed", n))
	return n
}

// Undo restores the roster cleared by the last Reset.
func (s *Service) Undo(ctx context.Context) (int, error) {
	n, err := s.roster.Undo(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "roster restored", logger.Int("participants", n))
	return n, nil
}

// Generate assigns the current roster to pods. Settings.Scale is ignored:
// roster tiers were resolved on the service scale when added.
func (s *Service) Generate(ctx context.Context, opts Settings) (report.Report, error) {
	opts.Scale = s.scale.String()
	tol, mode, scale, err := s.settings(opts)
	if err != nil {
		return report.Report{}, err
	}
	return s.generate(ctx, SourceRoster, s.roster.List(ctx), tol, mode, scale)
}

// Preview assigns the participants in req without touching the roster.
// Participants without an id are numbered p1, p2, ... in request order.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (report.Report, error) {
	return s.run(ctx, SourcePreview, req)
}

// GenerateFrom is Preview labelled for command line use.
func (s *Service) GenerateFrom(ctx context.Context, req PreviewRequest) (report.Report, error) {
	return s.run(ctx, SourceCLI, req)
}

func (s *Service) run(ctx context.Context, source string, req PreviewRequest) (report.Report, error) {
	if len(req.Participants) > s.maxParticipants {
		return report.Report{}, fmt.Errorf("%w: %d exceeds limit %d",
			ErrTooManyParticipants, len(req.Participants), s.maxParticipants)
	}
	tol, mode, scale, err := s.settings(req.Settings)
	if err != nil {
		return report.Report{}, err
	}
	participants := make([]model.Participant, 0, len(req.Participants))
	for i, in := range req.Participants {
		if in.ID == "" {
			in.ID = "p" + strconv.Itoa(i+1)
		}
		p, err := resolve(in, scale)
		if err != nil {
			return report.Report{}, err
		}
		participants = append(participants, p)
	}
	return s.generate(ctx, source, participants, tol, mode, scale)
}

func (s *Service) generate(ctx context.Context, source string, participants []model.Participant,
	tol compat.Tolerance, mode planner.Mode, scale power.Scale,
) (report.Report, error) {
	start := time.Now()
	tol = compat.Effective(tol, scale)

	units, err := flatten.Units(participants, tol)
	if err != nil {
		var invalid *flatten.InvalidGroupsError
		if errors.As(err, &invalid) {
			metrics.RecordInvalidGroups(len(invalid.Groups))
		}
		metrics.RecordErrorByComponent("flatten", errorType(err))
		s.logger.Warn(ctx, "participants rejected before assignment",
			logger.String("source", source),
			logger.Error(err),
		)
		return report.Report{}, err
	}

	res := s.engine.Generate(ctx, units, tol, mode)
	rep := report.Build(res, tol, scale)

	elapsed := time.Since(start)
	metrics.RecordGeneration(source)
	metrics.RecordGenerationLatency(float64(elapsed.Microseconds()) / 1000)
	metrics.RecordGenerationOutcome(len(rep.Pods), rep.AssignedCount, rep.UnassignedCount, len(rep.Skipped))

	s.mu.Lock()
	s.generations++
	s.last = &rep
	s.mu.Unlock()

	return rep, nil
}

// settings resolves per-call overrides against the service defaults.
func (s *Service) settings(o Settings) (compat.Tolerance, planner.Mode, power.Scale, error) {
	tol, mode, scale := s.tolerance, s.mode, s.scale
	var err error
	if o.Tolerance != "" {
		if tol, err = compat.ParseTolerance(o.Tolerance); err != nil {
			return tol, mode, scale, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	if o.Mode != "" {
		if mode, err = planner.ParseMode(o.Mode); err != nil {
			return tol, mode, scale, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	if o.Scale != "" {
		if scale, err = power.ParseScale(o.Scale); err != nil {
			return tol, mode, scale, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}
	return tol, mode, scale, nil
}

// resolve turns caller input into a validated participant.
func resolve(in ParticipantInput, scale power.Scale) (model.Participant, error) {
	prof, err := power.Resolve(scale, in.Tiers)
	if err != nil {
		return model.Participant{}, fmt.Errorf("participant %q: %w", in.Name, err)
	}
	return model.Participant{
		ID:      in.ID,
		Name:    in.Name,
		Tiers:   prof.Tiers,
		Labels:  prof.Labels,
		Average: prof.Average,
		GroupID: in.GroupID,
	}, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, flatten.ErrInvalidGroup):
		return "invalid_group"
	case errors.Is(err, flatten.ErrDuplicateName), errors.Is(err, flatten.ErrDuplicateParticipant):
		return "duplicate"
	default:
		return "invalid_participant"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	participants := s.roster.List(ctx)

	groups := make(map[string]struct{})
	for _, p := range participants {
		if p.GroupID != "" {
			groups[p.GroupID] = struct{}{}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"participants":    len(participants),
		"groups":          len(groups),
		"maxParticipants": s.maxParticipants,
		"tolerance":       s.tolerance.String(),
		"planMode":        s.mode.String(),
		"scale":           s.scale.String(),
		"plan":            planner.Plan(len(participants), s.mode),
		"generations":     s.generations,
	}
	if s.last != nil {
		stats["lastPods"] = len(s.last.Pods)
		stats["lastAssigned"] = s.last.AssignedCount
		stats["lastUnassigned"] = s.last.UnassignedCount
	}

	metrics.UpdateRosterSize(len(participants))
	return stats
}
