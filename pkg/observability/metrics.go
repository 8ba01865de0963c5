// Package observability holds the Prometheus instrumentation and the metrics
// endpoint.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the process-wide instrument set. Both the API server and the
// worker register it against their own registry.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	JobsProcessed       *prometheus.CounterVec
	WebhookAttempts     *prometheus.CounterVec
	QueueDepth          *prometheus.GaugeVec
}

// NewMetrics registers the instrument set on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Inbound API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		JobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Worker job runs by queue and outcome.",
		}, []string{"queue", "outcome"}),
		WebhookAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_delivery_attempts_total",
			Help: "Webhook delivery attempts by result.",
		}, []string{"result"}),
		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Jobs waiting per queue, sampled on each poll.",
		}, []string{"queue"}),
	}
}

// ObserveJob records one worker job run.
func (m *Metrics) ObserveJob(queue, outcome string) {
	if m == nil {
		return
	}
	m.JobsProcessed.WithLabelValues(queue, outcome).Inc()
}

// ObserveWebhookAttempt records one delivery attempt.
func (m *Metrics) ObserveWebhookAttempt(result string) {
	if m == nil {
		return
	}
	m.WebhookAttempts.WithLabelValues(result).Inc()
}

// GinMiddleware times every request. The route template keeps cardinality
// bounded; unmatched routes collapse onto their raw path's absence.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
