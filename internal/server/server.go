package server

import (
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytproxy/internal/services"
	"github.com/desertthunder/ytproxy/internal/shared"
	"github.com/go-chi/chi/v5"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler registers a group of related routes on a router.
//
// Each implementation owns its paths so route definitions live next to the code serving them.
type Handler interface {
	Routes(r chi.Router)
}

// Options configures [NewRouter].
type Options struct {
	Factory        services.Factory
	Logger         *log.Logger
	MaxUploadBytes int64    // request body limit for song uploads
	CORSOrigins    []string // CORS is disabled when empty
	RateLimit      int      // requests per minute per client IP, 0 disables
	TempDir        string   // where setup and upload stage their files, defaults to os.TempDir()
}

// OptionsFromConfig builds router options from the [server] config section.
func OptionsFromConfig(cfg *shared.Config, factory services.Factory, logger *log.Logger) Options {
	return Options{
		Factory:        factory,
		Logger:         logger,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimit:      cfg.Server.RateLimit,
	}
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = shared.NewLogger(io.Discard)
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = shared.DefaultConfig().Server.MaxUploadBytes()
	}
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
}

// base is embedded by handlers that talk to the upstream service.
type base struct {
	resolver *Resolver
	logger   *log.Logger
}

// client resolves the request's credentials, writing the error response on failure.
func (b *base) client(w http.ResponseWriter, r *http.Request) (services.Client, bool) {
	client, err := b.resolver.FromRequest(r)
	if err != nil {
		b.fail(w, r, err)
		return nil, false
	}
	return client, true
}

// fail writes err as a classified JSON error and logs it.
func (b *base) fail(w http.ResponseWriter, r *http.Request, err error) {
	he := respondError(w, err)
	if he.Status >= http.StatusInternalServerError {
		b.logger.Error("request failed", "path", r.URL.Path, "status", he.Status, "err", err)
	} else {
		b.logger.Warn("request failed", "path", r.URL.Path, "status", he.Status, "err", err)
	}
}
