package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/blaisecz/athlete-readiness/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request count and latency by route pattern, so path
// parameters do not create new label values.
func Metrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sw, r)

			m.RecordHTTPRequest(routePattern(r), r.Method, strconv.Itoa(sw.statusCode), time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
