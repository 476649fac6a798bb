package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/splitshare/internal/metrics"
)

// Metrics records request counts and latency per route. It must wrap the
// ServeMux directly so the matched pattern is visible after serving.
func Metrics(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
