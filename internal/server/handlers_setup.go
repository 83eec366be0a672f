package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

const (
	defaultSetupPath  = "browser.json"
	oauthInstructions = "OAuth setup requires interactive terminal. Use the ytproxy CLI: ytproxy oauth"
)

// SetupHandler generates browser credentials from raw request headers.
//
// The credential object is always returned in the response so remote callers can store it themselves.
type SetupHandler struct {
	logger  *log.Logger
	tempDir string
}

func NewSetupHandler(logger *log.Logger, tempDir string) *SetupHandler {
	return &SetupHandler{logger: logger, tempDir: tempDir}
}

func (h *SetupHandler) Routes(r chi.Router) {
	r.Post("/api/setup", h.browser)
	r.Post("/api/setup/oauth", h.oauth)
}

func (h *SetupHandler) browser(w http.ResponseWriter, r *http.Request) {
	path := defaultSetupPath
	req := BrowserSetupRequest{Filepath: &path}
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, err)
		return
	}

	content, saved, err := h.generate(*req.HeadersRaw, req.Filepath)
	if err != nil {
		h.logger.Warn("browser setup failed", "err", err)
		respondError(w, httpErrorf(http.StatusBadRequest, "Setup failed: %v", err))
		return
	}

	h.logger.Debug("generated browser credentials", "keys", services.HeaderKeys(content), "saved", saved)
	writeJSON(w, http.StatusOK, SetupResult{
		Success:     true,
		Filepath:    saved,
		Message:     "Successfully generated browser authentication",
		AuthContent: content,
	})
}

// generate runs browser setup into a private temp file, reads it back and optionally copies it
// to dest. The temp file is removed on every path out.
func (h *SetupHandler) generate(headersRaw string, dest *string) (map[string]any, string, error) {
	tmp, err := os.CreateTemp(h.tempDir, "ytproxy-setup-*.json")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if _, err := services.SetupBrowser(tmpPath, headersRaw); err != nil {
		return nil, "", err
	}

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read generated credentials: %w", err)
	}
	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, "", fmt.Errorf("failed to parse generated credentials: %w", err)
	}

	if dest == nil || *dest == "" {
		return content, "", nil
	}
	if err := os.MkdirAll(filepath.Dir(*dest), 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create directory for %s: %w", *dest, err)
	}
	if err := os.WriteFile(*dest, raw, 0o600); err != nil {
		return nil, "", fmt.Errorf("failed to save %s: %w", *dest, err)
	}
	h.logger.Info("saved browser credentials", "path", *dest)
	return content, *dest, nil
}

func (h *SetupHandler) oauth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Message{Message: oauthInstructions})
}
