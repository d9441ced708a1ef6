package allocation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aristath/charlie/internal/domain"
)

// Handler exposes the facade over HTTP: POST /allocate and POST
// /analyze, per spec §6.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

// NewHandler wires a Handler around an allocation Service.
func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With().Str("handler", "allocation").Logger()}
}

// HandleAllocate decodes an AllocationInput, runs the facade, and
// writes the AllocationResponse. Domain errors (validation, no feasible
// solution, numerical, cancelled) are returned in-band with 200 —
// callers read error_code from the body. Non-2xx is reserved for
// transport-level failures (bad JSON), which use the
// {message, error_code, request_id} envelope per spec §6.
func (h *Handler) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	resp := h.svc.Allocate(r.Context(), req)
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleAnalyze decodes a Portfolio and writes the AnalysisResponse.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	resp := h.svc.Analyze(req)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"message":    message,
		"error_code": string(domain.KindValidationError),
		"request_id": middleware.GetReqID(r.Context()),
	})
}
