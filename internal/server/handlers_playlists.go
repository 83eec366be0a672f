package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PlaylistHandler serves /api/playlists.
type PlaylistHandler struct {
	base
}

func NewPlaylistHandler(resolver *Resolver) *PlaylistHandler {
	return &PlaylistHandler{base{resolver: resolver, logger: resolver.logger}}
}

func (h *PlaylistHandler) Routes(r chi.Router) {
	r.Route("/api/playlists", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.edit)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/items", h.addItems)
		r.Delete("/{id}/items", h.removeItems)
	})
}

func (h *PlaylistHandler) get(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	result, err := client.GetPlaylist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// create makes the playlist and then extracts its ID; extraction is skipped if creation failed.
func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	var req CreatePlaylistRequest
	if err := decodeRequest(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := client.CreatePlaylist(r.Context(), *req.Title, *req.Description, req.PrivacyStatus)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := playlistID(result)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CreatePlaylistResult{PlaylistID: id})
}

func (h *PlaylistHandler) edit(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	var req EditPlaylistRequest
	if err := decodeRequest(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := client.EditPlaylist(r.Context(), chi.URLParam(r, "id"), req.Title, req.Description)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	result, err := client.DeletePlaylist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}

func (h *PlaylistHandler) addItems(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	var req AddPlaylistItemsRequest
	if err := decodeRequest(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := client.AddPlaylistItems(r.Context(), chi.URLParam(r, "id"), req.VideoIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}

func (h *PlaylistHandler) removeItems(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	var req RemovePlaylistItemsRequest
	if err := decodeRequest(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := client.RemovePlaylistItems(r.Context(), chi.URLParam(r, "id"), req.Videos)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}
