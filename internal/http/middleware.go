package http

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
)

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares around h, outermost first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey keeps request-scoped values from colliding with other packages.
type contextKey string

const dryRunKey contextKey = "dryRun"

// paramsMiddleware reads the query parameters every endpoint honors: verbose
// raises the log level for the duration of the request, dry_run asks command
// handlers to report what they would do instead of committing.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())

		q := r.URL.Query()
		if q.Get("verbose") == "true" {
			level := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(level)
		}

		ctx := context.WithValue(r.Context(), dryRunKey, q.Get("dry_run") == "true")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext reports whether the request asked for a dry run.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}
