// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/podsmith/internal/app"
	"github.com/okian/podsmith/internal/domain/flatten"
	"github.com/okian/podsmith/internal/domain/model"
	"github.com/okian/podsmith/internal/domain/report"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	RosterDependencies
	PodsDependencies
}

// RosterDependencies covers roster editing.
type RosterDependencies interface {
	AddParticipant(ctx context.Context, in service.ParticipantInput) (model.Participant, error)
	RemoveParticipant(ctx context.Context, id string) error
	SetGroup(ctx context.Context, id, groupID string) (model.Participant, error)
	Participants(ctx context.Context) []model.Participant
	Reset(ctx context.Context) int
	Undo(ctx context.Context) (int, error)
}

// PodsDependencies covers pod generation.
type PodsDependencies interface {
	Generate(ctx context.Context, opts service.Settings) (report.Report, error)
	Preview(ctx context.Context, req service.PreviewRequest) (report.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	rosterHandler *RosterHandler
	podsHandler   *PodsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		rosterHandler: NewRosterHandler(deps),
		podsHandler:   NewPodsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /participants", MetricsMiddleware(s.rosterHandler.HandleList, "participants"))
	mux.HandleFunc("POST /participants", MetricsMiddleware(s.rosterHandler.HandleAdd, "participants"))
	mux.HandleFunc("DELETE /participants/{id}", MetricsMiddleware(s.rosterHandler.HandleRemove, "participant"))
	mux.HandleFunc("PUT /participants/{id}/group", MetricsMiddleware(s.rosterHandler.HandleSetGroup, "participant_group"))
	mux.HandleFunc("POST /roster/reset", MetricsMiddleware(s.rosterHandler.HandleReset, "roster_reset"))
	mux.HandleFunc("POST /roster/undo", MetricsMiddleware(s.rosterHandler.HandleUndo, "roster_undo"))

	mux.HandleFunc("POST /pods", MetricsMiddleware(s.podsHandler.HandleGenerate, "pods"))
	mux.HandleFunc("POST /pods/preview", MetricsMiddleware(s.podsHandler.HandlePreview, "pods_preview"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Groups  []string `json:"groups,omitempty"`
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// allowEmpty is set.
func decode(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code, kind := status(err)
	if ks, ok := w.(kindSetter); ok {
		ks.setKind(kind)
	}
	resp := errorResponse{Code: kind, Message: err.Error()}
	var invalid *flatten.InvalidGroupsError
	if errors.As(err, &invalid) {
		resp.Groups = invalid.Groups
	}
	writeJSON(w, code, resp)
}
