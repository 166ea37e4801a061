// Package prom implements the observability hooks with Prometheus metrics.
//
// Metrics live on a private registry together with the Go runtime and
// process collectors, so nothing leaks into prometheus.DefaultRegisterer:
//
//	m := prom.New()
//	observability.Register(m)
//	router.Handle("/metrics", m.Handler())
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/treeviz/pkg/observability"
)

const namespace = "treeviz"

// Metrics holds every collector and implements all observability hooks.
type Metrics struct {
	registry *prometheus.Registry

	buildsTotal   *prometheus.CounterVec   // status
	buildDuration prometheus.Histogram
	diagramNodes  prometheus.Histogram
	rendersTotal  *prometheus.CounterVec   // backend, format, status
	renderSeconds *prometheus.HistogramVec // backend, format
	renderBytes   *prometheus.HistogramVec // format

	cacheOps    *prometheus.CounterVec // backend, result (hit, miss, set)
	cacheErrors *prometheus.CounterVec // backend, op

	httpRequests *prometheus.CounterVec   // method, route, code
	httpDuration *prometheus.HistogramVec // method, route
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		buildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diagram",
			Name:      "builds_total",
			Help:      "Diagram descriptions built, by outcome",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "diagram",
			Name:      "build_duration_seconds",
			Help:      "Time to build a diagram description",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		diagramNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "diagram",
			Name:      "nodes",
			Help:      "Datasets per built diagram",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Images rendered, by backend, format and outcome",
		}, []string{"backend", "format", "status"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Time to lay out and encode one image",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "format"}),
		renderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "output_bytes",
			Help:      "Size of rendered images",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),

		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes, by backend and result",
		}, []string{"backend", "result"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Failed cache operations",
		}, []string{"backend", "op"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP API requests, by method, route and status code",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP API request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.buildsTotal, m.buildDuration, m.diagramNodes,
		m.rendersTotal, m.renderSeconds, m.renderBytes,
		m.cacheOps, m.cacheErrors,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnBuildStart(context.Context, int, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, nodes, _ int, d time.Duration, err error) {
	m.buildsTotal.WithLabelValues(status(err)).Inc()
	m.buildDuration.Observe(d.Seconds())
	if err == nil {
		m.diagramNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, backend, format string, size int, d time.Duration, err error) {
	m.rendersTotal.WithLabelValues(backend, format, status(err)).Inc()
	m.renderSeconds.WithLabelValues(backend, format).Observe(d.Seconds())
	if err == nil {
		m.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, backend string) {
	m.cacheOps.WithLabelValues(backend, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, backend string) {
	m.cacheOps.WithLabelValues(backend, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, backend string, _ int) {
	m.cacheOps.WithLabelValues(backend, "set").Inc()
}

func (m *Metrics) OnCacheError(_ context.Context, backend, op string, _ error) {
	m.cacheErrors.WithLabelValues(backend, op).Inc()
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
