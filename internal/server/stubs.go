package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// StubHandler answers every method under a reserved prefix with 501.
type StubHandler struct {
	prefix string
	domain string
}

// NewStubHandler reserves prefix (e.g. "/api/podcasts") for domain (e.g. "Podcasts").
func NewStubHandler(prefix, domain string) *StubHandler {
	return &StubHandler{prefix: prefix, domain: domain}
}

// stubHandlers lists the domains the proxy does not implement.
// /api/search/* is reserved separately from the real /api/search endpoint.
func stubHandlers() []Handler {
	return []Handler{
		NewStubHandler("/api/podcasts", "Podcasts"),
		NewStubHandler("/api/explore", "Explore"),
		NewStubHandler("/api/browsing", "Browsing"),
		NewStubHandler("/api/search", "Search"),
	}
}

func (h *StubHandler) Routes(r chi.Router) {
	r.HandleFunc(h.prefix+"/*", h.notImplemented)
}

func (h *StubHandler) notImplemented(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, ErrorDetail{Detail: h.domain + " domain not implemented"})
}
