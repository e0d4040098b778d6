// Package metrics exposes Prometheus collectors for the gradebook server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradebook",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	writes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "writes_total",
		Help:      "Gradebook changes by entity and operation.",
	}, []string{"entity", "op"})

	rejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradebook",
		Name:      "rejected_submissions_total",
		Help:      "Form submissions refused by validation, by reason.",
	}, []string{"reason"})
)

// Write records a successful insert or delete.
func Write(entity, op string) {
	writes.WithLabelValues(entity, op).Inc()
}

// Rejected records a submission that failed validation.
func Rejected(reason string) {
	rejected.WithLabelValues(reason).Inc()
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware counts requests per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
