package apiserver

import (
	"strconv"
	"time"

	"github.com/and0p/chaos-core/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// requestLogger stamps every request with a trace id (reusing an
// OpenTelemetry span's id if one is already active) and logs a single
// before/after line through the ambient logger.
type requestLogger struct{}

func newRequestLogger() *requestLogger { return &requestLogger{} }

func (rl *requestLogger) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		var traceID string
		if span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		} else {
			traceID = uuid.NewString()
		}
		c.Set("trace_id", traceID)

		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		logging.LogInfo("http %s %s %d %s trace=%s", method, path, c.Writer.Status(), time.Since(start), traceID)
	}
}

// requestMetrics records per-route request duration/inflight/error counts.
// /metrics itself is served on its own listener (cmd/server starts
// eventbus's MetricsExporter for it), so this middleware only feeds the
// default Prometheus registry — it does not register its own endpoint. The collectors are package-level and
// registered exactly once in init, since every Server (one per process in
// production, several across a test binary) shares the same default
// registry and a second registration of the same descriptor panics.
type requestMetrics struct {
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
	errors   *prometheus.CounterVec
}

var (
	apiRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "game_api",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of debug/admin HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	apiRequestsInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "game_api",
		Name:      "http_requests_inflight",
		Help:      "Requests currently being handled.",
	})
	apiRequestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "game_api",
		Name:      "http_request_errors_total",
		Help:      "Requests that completed with a 4xx/5xx status.",
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(apiRequestDuration, apiRequestsInflight, apiRequestErrors)
}

func newRequestMetrics() *requestMetrics {
	return &requestMetrics{duration: apiRequestDuration, inflight: apiRequestsInflight, errors: apiRequestErrors}
}

func (rm *requestMetrics) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rm.inflight.Inc()
		c.Next()
		rm.inflight.Dec()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		rm.duration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 400 {
			rm.errors.WithLabelValues(method, path, status).Inc()
		}
	}
}
