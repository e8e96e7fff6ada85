// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/okian/podsmith/internal/app"
)

// settingsRequest carries optional per-call overrides.
type settingsRequest struct {
	Tolerance string `json:"tolerance,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Scale     string `json:"scale,omitempty"`
}

func (s settingsRequest) settings() service.Settings {
	return service.Settings{Tolerance: s.Tolerance, Mode: s.Mode, Scale: s.Scale}
}

// previewRequest mirrors the OpenAPI schema for POST /pods/preview.
type previewRequest struct {
	settingsRequest
	Participants []participantRequest `json:"participants"`
}

// PodsHandler handles pod generation requests.
type PodsHandler struct {
	deps PodsDependencies
}

// NewPodsHandler creates a new pods handler.
func NewPodsHandler(deps PodsDependencies) *PodsHandler {
	return &PodsHandler{deps: deps}
}

// HandleGenerate handles POST /pods requests over the stored roster. The body
// is optional.
func (h *PodsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate_pods"
	var req settingsRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.Generate(r.Context(), req.settings())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandlePreview handles POST /pods/preview requests. Nothing is stored.
func (h *PodsHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	const op = "api.preview_pods"
	var req previewRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	in := service.PreviewRequest{
		Participants: make([]service.ParticipantInput, 0, len(req.Participants)),
		Settings:     req.settings(),
	}
	for _, p := range req.Participants {
		in.Participants = append(in.Participants, p.input())
	}
	rep, err := h.deps.Preview(r.Context(), in)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
