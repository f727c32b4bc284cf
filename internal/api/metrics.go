package api

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "todolist",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "todolist",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Instrument attaches log to the request context, then records the outcome
// of every matched request as a log line and as metrics.
func Instrument(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeTemplate(r)
			r = r.WithContext(log.With().Str("route", route).Logger().WithContext(r.Context()))

			m := httpsnoop.CaptureMetrics(next, w, r)

			httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(m.Code)).Inc()
			httpRequestDuration.WithLabelValues(route, r.Method).Observe(m.Duration.Seconds())
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", m.Code).
				Dur("duration", m.Duration).
				Msg("request")
		})
	}
}

func routeTemplate(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
