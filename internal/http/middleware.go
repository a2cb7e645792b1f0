package http

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/duel-keeper/internal/http/handlers"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// AdminHeader carries the id of the admin performing a mutation.
const AdminHeader = "X-Admin-ID"

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware logs the request and handles the 'verbose' query parameter.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}
		next.ServeHTTP(w, r)
	})
}

// adminMiddleware requires a positive admin id in the X-Admin-ID header.
// When allowed is non-empty the id must also be listed there.
func adminMiddleware(allowed []int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(AdminHeader)
			if raw == "" {
				http.Error(w, "missing "+AdminHeader+" header", http.StatusUnauthorized)
				return
			}
			adminID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || adminID <= 0 {
				http.Error(w, "invalid "+AdminHeader+" header", http.StatusBadRequest)
				return
			}
			if len(allowed) > 0 && !slices.Contains(allowed, adminID) {
				log.Warn("Rejected mutation from non-admin", "adminID", adminID, "url", r.URL.String())
				http.Error(w, "not an admin", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), handlers.AdminKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
