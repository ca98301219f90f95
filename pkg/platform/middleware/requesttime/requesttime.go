// Package requesttime pins one "now" per request so that every timestamp a
// request produces (relationship start, observation createdAt, audit events)
// agrees.
package requesttime

import (
	"net/http"
	"time"

	"carelock/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
