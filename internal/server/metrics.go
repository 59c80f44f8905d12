package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fhgr/curnav/pkg/observability"
)

// Metrics holds the Prometheus collectors of one server. It implements the
// observability hook interfaces so pipeline, cache and query events are
// recorded without those packages importing Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Loads          *prometheus.CounterVec
	DatasetModules prometheus.Gauge
	DatasetIssues  prometheus.Gauge
	LayoutDuration prometheus.Histogram
	RenderDuration *prometheus.HistogramVec

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheBytes  prometheus.Counter

	ReachableSize prometheus.Histogram
	Filters       *prometheus.CounterVec
	Triggers      *prometheus.CounterVec
}

// NewMetrics creates collectors registered with a fresh registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset loads",
		}, []string{"status"}),
		DatasetModules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_modules",
			Help:      "Number of modules in the last loaded dataset",
		}),
		DatasetIssues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_issues",
			Help:      "Number of data-quality issues in the last loaded dataset",
		}),
		LayoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Spring layout computation time in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Network rendering time in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}),
		CacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Total bytes written to the cache",
		}),
		ReachableSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reachable_modules",
			Help:      "Size of highlight sets returned by reachability queries",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		Filters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_total",
			Help:      "Total number of filter evaluations",
		}, []string{"empty"}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_total",
			Help:      "Total number of interaction triggers",
		}, []string{"trigger", "status"}),
	}

	m.registry.MustRegister(
		m.HTTPRequests, m.HTTPDuration,
		m.Loads, m.DatasetModules, m.DatasetIssues, m.LayoutDuration, m.RenderDuration,
		m.CacheHits, m.CacheMisses, m.CacheBytes,
		m.ReachableSize, m.Filters, m.Triggers,
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetQueryHooks(m)
}

// Middleware records request counts and latencies by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// PipelineHooks

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, modules, issues int, _ time.Duration, err error) {
	if err != nil {
		m.Loads.WithLabelValues("error").Inc()
		return
	}
	m.Loads.WithLabelValues("ok").Inc()
	m.DatasetModules.Set(float64(modules))
	m.DatasetIssues.Set(float64(issues))
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, d time.Duration, _ error) {
	m.LayoutDuration.Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, _ error) {
	m.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
}

// CacheHooks

func (m *Metrics) OnCacheHit(context.Context, string)  { m.CacheHits.Inc() }
func (m *Metrics) OnCacheMiss(context.Context, string) { m.CacheMisses.Inc() }

func (m *Metrics) OnCacheSet(_ context.Context, _ string, size int) {
	m.CacheBytes.Add(float64(size))
}

// QueryHooks

func (m *Metrics) OnReachability(_ context.Context, size int, _ time.Duration, err error) {
	if err == nil {
		m.ReachableSize.Observe(float64(size))
	}
}

func (m *Metrics) OnFilter(_ context.Context, _ int, empty bool, _ time.Duration) {
	m.Filters.WithLabelValues(strconv.FormatBool(empty)).Inc()
}

func (m *Metrics) OnTrigger(_ context.Context, trigger string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Triggers.WithLabelValues(trigger, status).Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.QueryHooks    = (*Metrics)(nil)
)
