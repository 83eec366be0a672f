package server

import (
	"context"
	"net/http"

	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/go-chi/chi/v5"
)

// readOp is a body-less upstream read, usually a method expression such as
// services.Client.GetLibrarySongs.
type readOp func(services.Client, context.Context) (any, error)

// passthrough serves op's raw result.
func (b *base) passthrough(op readOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, ok := b.client(w, r)
		if !ok {
			return
		}
		result, err := op(client, r.Context())
		if err != nil {
			b.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// LibraryHandler serves /api/library.
type LibraryHandler struct {
	base
}

func NewLibraryHandler(resolver *Resolver) *LibraryHandler {
	return &LibraryHandler{base{resolver: resolver, logger: resolver.logger}}
}

func (h *LibraryHandler) Routes(r chi.Router) {
	r.Route("/api/library", func(r chi.Router) {
		r.Get("/playlists", h.passthrough(services.Client.GetLibraryPlaylists))
		r.Get("/songs", h.passthrough(services.Client.GetLibrarySongs))
		r.Get("/albums", h.passthrough(services.Client.GetLibraryAlbums))
		r.Get("/artists", h.passthrough(services.Client.GetLibraryArtists))
		r.Get("/liked-songs", h.passthrough(services.Client.GetLikedSongs))
		r.Get("/history", h.passthrough(services.Client.GetHistory))
		r.Post("/songs/{id}/rate", h.rate)
		r.Post("/artists/subscribe", h.subscribe)
	})
}

func (h *LibraryHandler) rate(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	var req RateSongRequest
	if err := decodeRequest(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := client.RateSong(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}

func (h *LibraryHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	var req SubscribeArtistsRequest
	if err := decodeRequest(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := client.SubscribeArtists(r.Context(), req.ChannelIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}
