// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the interface the service layer uses to report domain
// metrics, keeping services independent of the Prometheus types.
type Recorder interface {
	RecordReceiptCreated()
	RecordRenderLatency(d time.Duration)
}

// Collector implements Recorder and additionally tracks HTTP traffic.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	renderLatency   prometheus.Histogram
	receiptsCreated prometheus.Counter
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "receipts_http_requests_total",
			Help: "HTTP requests by method, path pattern and status code.",
		}, []string{"method", "path", "status"}),
		renderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "receipts_render_duration_seconds",
			Help:    "Time spent rasterizing and encoding receipt images.",
			Buckets: prometheus.DefBuckets,
		}),
		receiptsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "receipts_created_total",
			Help: "Receipts persisted since process start.",
		}),
	}

	reg.MustRegister(c.requestsTotal, c.renderLatency, c.receiptsCreated)
	return c
}

// RecordReceiptCreated increments the created-receipts counter.
func (c *Collector) RecordReceiptCreated() {
	c.receiptsCreated.Inc()
}

// RecordRenderLatency observes one render duration.
func (c *Collector) RecordRenderLatency(d time.Duration) {
	c.renderLatency.Observe(d.Seconds())
}

// RecordRequest counts one completed HTTP request.
func (c *Collector) RecordRequest(method, path string, status int) {
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Middleware counts every request passing through it. The path label uses
// the raw URL path; route patterns here are few and fixed, so cardinality
// stays bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		c.RecordRequest(r.Method, r.URL.Path, sw.status)
	})
}

// statusWriter captures the status code written by downstream handlers.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
