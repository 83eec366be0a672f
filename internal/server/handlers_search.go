package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SearchHandler serves GET /api/search. The filter is passed upstream unchecked.
type SearchHandler struct {
	base
}

func NewSearchHandler(resolver *Resolver) *SearchHandler {
	return &SearchHandler{base{resolver: resolver, logger: resolver.logger}}
}

func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/api/search", h.search)
}

func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		h.fail(w, r, httpErrorf(http.StatusUnprocessableEntity, "q: field required"))
		return
	}

	result, err := client.Search(r.Context(), q, r.URL.Query().Get("filter"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
