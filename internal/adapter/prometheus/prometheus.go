package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusAdapter implements ports.MetricsPort.
type PrometheusAdapter struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     prometheus.Counter
}

func NewPrometheusAdapter() *PrometheusAdapter {
	return &PrometheusAdapter{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prediction_http_requests_total",
			Help: "Total HTTP requests handled by the prediction service",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prediction_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prediction_cache_hits_total",
			Help: "Prediction cache hits by tier",
		}, []string{"tier"}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prediction_cache_misses_total",
			Help: "Prediction cache misses",
		}),
	}
}

func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	method := c.Request.Method
	status := strconv.Itoa(c.Writer.Status())

	p.requestsTotal.WithLabelValues(method, path, status).Inc()
	p.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}

func (p *PrometheusAdapter) RecordCacheHit(tier string) {
	p.cacheHits.WithLabelValues(tier).Inc()
}

func (p *PrometheusAdapter) RecordCacheMiss() {
	p.cacheMisses.Inc()
}
