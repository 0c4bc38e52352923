// HTTP request metrics middleware.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/DocFacts/internal/infrastructure/monitoring/prometheus"
)

// RequestMetrics returns middleware that records per-request counters and
// latency histograms.  Requests are labeled with the chi route pattern, not
// the raw path, to keep label cardinality bounded.
func RequestMetrics(metrics *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.HTTPActiveRequests.WithLabelValues(r.Method).Inc()
			defer metrics.HTTPActiveRequests.WithLabelValues(r.Method).Dec()

			start := time.Now()
			wrapped := newWrappedResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			// The route pattern is only resolved once chi has matched the
			// request, so it is read after the handler ran.
			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			prometheus.RecordHTTPRequest(metrics, r.Method, path, wrapped.statusCode, time.Since(start))
		})
	}
}
