package server

import (
	"net/http"

	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/go-chi/chi/v5"
)

// HealthHandler reports whether an anonymous upstream client can be built.
// It does not contact YouTube Music.
type HealthHandler struct {
	factory services.Factory
}

func NewHealthHandler(factory services.Factory) *HealthHandler {
	return &HealthHandler{factory: factory}
}

func (h *HealthHandler) Routes(r chi.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.factory.New(services.Credentials{}); err != nil {
		respondError(w, httpErrorf(http.StatusServiceUnavailable, "Service unhealthy: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, HealthStatus{Status: "healthy"})
}
