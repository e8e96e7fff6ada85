// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	service "github.com/okian/podsmith/internal/app"
	"github.com/okian/podsmith/internal/domain/model"
)

// participantRequest mirrors the OpenAPI schema for POST /participants.
type participantRequest struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Tiers   Tiers  `json:"tiers"`
	GroupID string `json:"group_id,omitempty"`
}

func (p participantRequest) input() service.ParticipantInput {
	return service.ParticipantInput{
		ID:      strings.TrimSpace(p.ID),
		Name:    p.Name,
		Tiers:   p.Tiers,
		GroupID: strings.TrimSpace(p.GroupID),
	}
}

type participantResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Tiers   []float64 `json:"tiers"`
	Labels  []string  `json:"labels"`
	Average float64   `json:"average"`
	GroupID string    `json:"group_id,omitempty"`
}

func toParticipant(p model.Participant) participantResponse {
	return participantResponse{
		ID:      p.ID,
		Name:    p.Name,
		Tiers:   p.Tiers,
		Labels:  p.Labels,
		Average: p.Average,
		GroupID: p.GroupID,
	}
}

type groupRequest struct {
	GroupID string `json:"group_id"`
}

type countResponse struct {
	Participants int `json:"participants"`
}

// RosterHandler handles roster requests.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleList handles GET /participants requests.
func (h *RosterHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list := h.deps.Participants(r.Context())
	out := make([]participantResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toParticipant(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleAdd handles POST /participants requests.
func (h *RosterHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_participant"
	var req participantRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.AddParticipant(r.Context(), req.input())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toParticipant(p))
}

// HandleRemove handles DELETE /participants/{id} requests.
func (h *RosterHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_participant"
	if err := h.deps.RemoveParticipant(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetGroup handles PUT /participants/{id}/group requests. An empty
// group_id makes the participant play solo.
func (h *RosterHandler) HandleSetGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_group"
	var req groupRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.SetGroup(r.Context(), r.PathValue("id"), strings.TrimSpace(req.GroupID))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toParticipant(p))
}

// HandleReset handles POST /roster/reset requests.
func (h *RosterHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	n := h.deps.Reset(r.Context())
	writeJSON(w, http.StatusOK, countResponse{Participants: n})
}

// HandleUndo handles POST /roster/undo requests.
func (h *RosterHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.undo_reset"
	n, err := h.deps.Undo(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Participants: n})
}
