// Package server exposes the YouTube Music account API as a stateless REST surface.
//
// # Routing
//
// [NewRouter] builds a single chi router at startup. Each [Handler] registers its own group of
// routes; the table is never modified afterwards. Unmatched paths and methods are answered with
// JSON 404 and 405 bodies.
//
// Middleware runs in this order: request id, real ip, [Metrics], [RequestLogger], [Recoverer],
// [CORS] and [RateLimit]. Every response carries X-Request-Id.
//
// # Credentials
//
// Each request builds its own upstream client through the [Resolver]. An inline JSON object in
// X-Auth-Data takes precedence over a server-local path in X-Auth-File; with neither the client is
// anonymous. Resolution happens first in every upstream-backed handler, so bad credentials fail
// with 400 before the body is validated or any upstream call is made.
//
// # Errors
//
// Upstream clients fail with descriptive text only. [Classify] triages that text:
// "authentication" is 401, "not found" is 404, "invalid" or "bad" is 400 and anything else is
// 500. This is a heuristic and will misfile errors whose wording changes upstream.
//
// Request bodies are validated with go-playground/validator; failures are 422. The podcasts,
// explore, browsing and search sub-trees answer 501 for any method.
package server
