package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	salesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdv_sales_created_total",
			Help: "Total number of sales persisted, by payment type.",
		},
		[]string{"payment_type"},
	)

	salesCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdv_sales_cancelled_total",
			Help: "Total number of sales cancelled.",
		},
	)

	saleCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdv_sale_compensations_total",
			Help: "Sale headers deleted after their item batch failed to insert.",
		},
	)

	saleOrphanedHeadersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdv_sale_orphaned_headers_total",
			Help: "Sale headers left without items because the compensating delete also failed. Needs manual reconciliation.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func IncSaleCreated(paymentType string) {
	salesCreatedTotal.WithLabelValues(paymentType).Inc()
}

func IncSaleCancelled() {
	salesCancelledTotal.Inc()
}

func IncSaleCompensation() {
	saleCompensationsTotal.Inc()
}

func IncSaleOrphanedHeader() {
	saleOrphanedHeadersTotal.Inc()
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		pathPattern := r.URL.Path
		if id := r.PathValue("id"); id != "" {
			pathPattern = strings.Replace(pathPattern, id, "{id}", 1)
		}

		if op := r.PathValue("operatorId"); op != "" {
			pathPattern = strings.Replace(pathPattern, op, "{operatorId}", 1)
		}

		defer func() {

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
