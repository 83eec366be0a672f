package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/goccy/go-json"
)

// Resolver turns per-request credential headers into an upstream client.
type Resolver struct {
	factory services.Factory
	logger  *log.Logger
}

// NewResolver creates a resolver backed by factory.
func NewResolver(factory services.Factory, logger *log.Logger) *Resolver {
	return &Resolver{factory: factory, logger: logger}
}

// Resolve builds a client from the X-Auth-Data and X-Auth-File header values.
//
// Inline data wins when both are given. Every failure is an [*HTTPError] with status 400.
func (r *Resolver) Resolve(authData, authFile string) (services.Client, error) {
	var creds services.Credentials

	switch {
	case strings.TrimSpace(authData) != "":
		var m map[string]any
		if err := json.Unmarshal([]byte(authData), &m); err != nil {
			return nil, httpErrorf(http.StatusBadRequest, "Invalid JSON in %s header: %v", services.HeaderAuthData, err)
		}
		if m == nil {
			return nil, httpErrorf(http.StatusBadRequest, "Invalid JSON in %s header: expected a JSON object", services.HeaderAuthData)
		}
		creds.Data = m
	case authFile != "":
		if _, err := os.Stat(authFile); errors.Is(err, fs.ErrNotExist) {
			return nil, httpErrorf(http.StatusBadRequest, "Authentication file not found: %s", authFile)
		}
		creds.File = authFile
	}

	client, err := r.factory.New(creds)
	if err != nil {
		return nil, httpErrorf(http.StatusBadRequest, "Authentication failed: %v", err)
	}

	if creds.Data != nil {
		r.logger.Debug("resolved credentials", "source", creds.Source(), "keys", services.HeaderKeys(creds.Data))
	} else {
		r.logger.Debug("resolved credentials", "source", creds.Source(), "file", creds.File)
	}
	return client, nil
}

// FromRequest resolves the credentials carried by req's headers.
func (r *Resolver) FromRequest(req *http.Request) (services.Client, error) {
	return r.Resolve(req.Header.Get(services.HeaderAuthData), req.Header.Get(services.HeaderAuthFile))
}
