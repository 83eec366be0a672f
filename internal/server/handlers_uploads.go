package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/go-chi/chi/v5"
)

const uploadFormField = "file"

// UploadHandler serves /api/uploads.
type UploadHandler struct {
	base
	maxBytes int64
	tempDir  string
}

func NewUploadHandler(resolver *Resolver, maxBytes int64, tempDir string) *UploadHandler {
	return &UploadHandler{
		base:     base{resolver: resolver, logger: resolver.logger},
		maxBytes: maxBytes,
		tempDir:  tempDir,
	}
}

func (h *UploadHandler) Routes(r chi.Router) {
	r.Route("/api/uploads", func(r chi.Router) {
		r.Get("/songs", h.passthrough(services.Client.GetLibraryUploadSongs))
		r.Get("/albums", h.passthrough(services.Client.GetLibraryUploadAlbums))
		r.Post("/songs", h.upload)
		r.Delete("/{id}", h.delete)
	})
}

// upload stages the multipart file under its original name, hands the path upstream and
// removes the staging directory whatever the outcome.
func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxBytes {
		h.fail(w, r, httpErrorf(http.StatusRequestEntityTooLarge, "Upload exceeds %d bytes", h.maxBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, httpErrorf(http.StatusRequestEntityTooLarge, "Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.fail(w, r, httpErrorf(http.StatusUnprocessableEntity, "malformed multipart body: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		h.fail(w, r, httpErrorf(http.StatusUnprocessableEntity, "%s: field required", uploadFormField))
		return
	}
	defer file.Close()

	path, cleanup, err := h.stage(file, header)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer cleanup()

	result, err := client.UploadSong(r.Context(), path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}

// stage copies the upload into a fresh directory and returns the file path and a func removing it.
func (h *UploadHandler) stage(src multipart.File, header *multipart.FileHeader) (string, func(), error) {
	dir := filepath.Join(h.tempDir, "ytproxy-upload-"+shared.GenerateID())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			h.logger.Warn("failed to remove upload directory", "dir", dir, "err", err)
		}
	}

	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	path := filepath.Join(dir, name)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write upload file: %w", err)
	}

	h.logger.Debug("staged upload", "file", name, "bytes", n)
	return path, cleanup, nil
}

func (h *UploadHandler) delete(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(w, r)
	if !ok {
		return
	}
	result, err := client.DeleteUploadEntity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(result))
}
