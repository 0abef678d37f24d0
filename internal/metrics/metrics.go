package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketplace_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"})

	ledgerOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_ledger_operations_total",
		Help: "Ledger operations by outcome",
	}, []string{"operation", "outcome"})
)

// ObserveLedgerOp records one ledger operation attempt. Outcome is "ok",
// "rejected" (validation or sufficiency failure) or "error".
func ObserveLedgerOp(operation, outcome string) {
	ledgerOpsTotal.WithLabelValues(operation, outcome).Inc()
}

// Instrument is a chi middleware recording request counts and latency per
// route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		httpReqTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		httpLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
