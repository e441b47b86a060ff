package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qonnect_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qonnect_auth_attempts_total",
			Help: "Authentication flow attempts by event and outcome",
		},
		[]string{"event", "success"},
	)
	domainEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qonnect_domain_events_total",
			Help: "Successful tracker mutations by event",
		},
		[]string{"event"},
	)
)

// PrometheusMiddleware records request duration labelled by the matched chi
// route pattern, so ids in paths do not explode cardinality.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}

// RecordAuthAttempt counts an authentication flow outcome.
func RecordAuthAttempt(event string, success bool) {
	authAttempts.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// RecordDomainEvent counts a successful mutation such as bug.reported.
func RecordDomainEvent(event string) {
	domainEvents.WithLabelValues(event).Inc()
}
