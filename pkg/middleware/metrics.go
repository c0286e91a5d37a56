package middleware

import (
	"net/http"
	"time"

	"github.com/ekaya-inc/prospect-crm/pkg/metrics"
)

// unmatchedRoute labels requests no mux pattern matched.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records request counts and latency per
// mux pattern. A nil m disables recording.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// ServeMux sets Pattern on the request it routes
			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			m.RecordHTTPRequest(r.Method, route, wrapped.statusCode, time.Since(start).Seconds())
		})
	}
}
