package providers

import (
	"net/http"
	"spotr/internal/structures"
	"time"
)

// UnmatchedEndpoint labels every request that hits no registered route, so
// arbitrary paths cannot grow the request series.
const UnmatchedEndpoint = "unmatched"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware records status and latency of next under endpoint.
// endpoint must be a route pattern, never the raw request path.
func MetricsMiddleware(metrics MetricsProviderInterface, endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, time.Since(start))
	})
}

// InstrumentRoutes mounts routes on a new mux, each reporting under its own
// url. Anything else gets a 404 counted under UnmatchedEndpoint.
func InstrumentRoutes(metrics MetricsProviderInterface, routes []structures.Route) http.Handler {
	mux := http.NewServeMux()
	catchAll := true
	for _, route := range routes {
		mux.Handle(route.Url, MetricsMiddleware(metrics, route.Url, route.Handler))
		if route.Url == "/" {
			catchAll = false
		}
	}
	if catchAll {
		mux.Handle("/", MetricsMiddleware(metrics, UnmatchedEndpoint, http.NotFoundHandler()))
	}
	return mux
}
