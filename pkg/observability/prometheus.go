package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "archgraph"

// Metrics implements every hook interface on top of a private Prometheus
// registry. Create one with NewMetrics and call Install to route the global
// hooks to it.
type Metrics struct {
	registry *prometheus.Registry

	ScanRuns      *prometheus.CounterVec
	ScanDuration  *prometheus.HistogramVec
	ScanNodes     *prometheus.CounterVec
	ScansRunning  prometheus.Gauge
	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec
	GraphNodes    prometheus.Gauge
	GraphEdges    prometheus.Gauge
	RenderBytes   prometheus.Histogram
	CacheOps      *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HTTPInFlight  prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	f := promauto.With(m.registry)

	m.ScanRuns = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanner_runs_total",
			Help:      "Scanner invocations by outcome",
		},
		[]string{"scanner", "outcome"},
	)
	m.ScanDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scanner_duration_seconds",
			Help:      "Time spent in a scanner's Extract",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"scanner"},
	)
	m.ScanNodes = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanner_nodes_total",
			Help:      "Components contributed by each scanner",
		},
		[]string{"scanner"},
	)
	m.ScansRunning = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scanners_running",
			Help:      "Scanners currently extracting",
		},
	)
	m.StageDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"stage"},
	)
	m.StageErrors = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures",
		},
		[]string{"stage"},
	)
	m.GraphNodes = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Components in the most recently merged graph",
		},
	)
	m.GraphEdges = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Connections in the most recently merged graph",
		},
	)
	m.RenderBytes = f.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_bytes",
			Help:      "Size of rendered documents",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 12),
		},
	)
	m.CacheOps = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes",
		},
		[]string{"key_type", "result"},
	)
	m.CacheBytes = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		},
		[]string{"key_type"},
	)
	m.HTTPRequests = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served",
		},
		[]string{"method", "route", "status"},
	)
	m.HTTPDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.HTTPInFlight = f.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		},
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Install registers m as the global scan, pipeline, cache, and HTTP hooks.
func (m *Metrics) Install() {
	SetScanHooks(m)
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

func (m *Metrics) OnScanStart(context.Context, string) {
	m.ScansRunning.Inc()
}

func (m *Metrics) OnScanComplete(_ context.Context, scanner string, nodeCount int, d time.Duration, err error) {
	m.ScansRunning.Dec()
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.ScanRuns.WithLabelValues(scanner, outcome).Inc()
	m.ScanDuration.WithLabelValues(scanner).Observe(d.Seconds())
	m.ScanNodes.WithLabelValues(scanner).Add(float64(nodeCount))
}

func (m *Metrics) OnMergeComplete(_ context.Context, nodeCount, edgeCount int, d time.Duration) {
	m.StageDuration.WithLabelValues("merge").Observe(d.Seconds())
	m.GraphNodes.Set(float64(nodeCount))
	m.GraphEdges.Set(float64(edgeCount))
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	m.observeStage("layout", d, err)
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.observeStage("render_"+format, d, err)
	if err == nil {
		m.RenderBytes.Observe(float64(size))
	}
}

func (m *Metrics) observeStage(stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOps.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ ScanHooks     = Noop{}
	_ PipelineHooks = Noop{}
	_ CacheHooks    = Noop{}
	_ HTTPHooks     = Noop{}

	_ ScanHooks     = (*Metrics)(nil)
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
