package middleware

import (
	"net/http"
	"time"

	"github.com/otion-app/otion/internal/observability"
)

// Metrics records request count and latency per route pattern.
// It must wrap the ServeMux directly so the mux fills in r.Pattern on the same request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		observability.ObserveRequest(route, r.Method, rw.statusCode, start)
	})
}
