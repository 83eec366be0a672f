package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the proxy's routing table. It is built once and only read afterwards.
func NewRouter(opts Options) http.Handler {
	opts.setDefaults()

	r := chi.NewRouter()

	// fallbacks first so subrouters mounted below inherit them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, &HTTPError{Status: http.StatusNotFound, Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, &HTTPError{Status: http.StatusMethodNotAllowed, Detail: "Method Not Allowed"})
	})

	for _, mw := range []Middleware{
		chimiddleware.RequestID,
		RequestIDHeader,
		chimiddleware.RealIP,
		Metrics,
		RequestLogger(opts.Logger),
		Recoverer(opts.Logger),
		CORS(opts.CORSOrigins),
		RateLimit(opts.RateLimit),
	} {
		r.Use(mw)
	}

	r.Handle("/metrics", promhttp.Handler())

	resolver := NewResolver(opts.Factory, opts.Logger)
	handlers := []Handler{
		NewHealthHandler(opts.Factory),
		NewSetupHandler(opts.Logger, opts.TempDir),
		NewPlaylistHandler(resolver),
		NewLibraryHandler(resolver),
		NewUploadHandler(resolver, opts.MaxUploadBytes, opts.TempDir),
		NewSearchHandler(resolver),
	}
	for _, h := range append(handlers, stubHandlers()...) {
		h.Routes(r)
	}

	return r
}
