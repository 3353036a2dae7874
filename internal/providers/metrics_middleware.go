package providers

import (
	"net/http"
	"time"

	"sitestats/internal/remote"
	"sitestats/internal/structures"
)

const (
	otherLabel = "other"
	noneLabel  = "none"
)

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

// routeLabels keeps request labels bounded to the registered routes.
type routeLabels map[string]struct{}

func newRouteLabels(routes []structures.Route) routeLabels {
	rl := make(routeLabels, len(routes))
	for _, route := range routes {
		rl[route.Url] = struct{}{}
	}
	return rl
}

// route names a request "METHOD /path". Unregistered paths and unusual
// methods collapse into "other".
func (rl routeLabels) route(r *http.Request) string {
	if _, ok := rl[r.URL.Path]; !ok {
		return otherLabel
	}
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
		return r.Method + " " + r.URL.Path
	}
	return otherLabel
}

// facetLabel is the facet query parameter when it names a known facet.
func facetLabel(r *http.Request) string {
	name := r.URL.Query().Get("facet")
	if name == "" {
		return noneLabel
	}
	if _, ok := remote.LookupFacet(name); !ok {
		return otherLabel
	}
	return name
}

// MetricsMiddleware counts requests per route, facet and status class and
// observes their latency per route.
func MetricsMiddleware(metrics MetricsProviderInterface, routes []structures.Route, next http.Handler) http.Handler {
	labels := newRouteLabels(routes)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := labels.route(r)
		metrics.IncRequestsTotal(route, facetLabel(r), sw.status)
		metrics.ObserveRequestDuration(route, time.Since(start))
	})
}
