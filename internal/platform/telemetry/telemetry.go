// Package telemetry exposes Prometheus metrics for the HTTP API and the
// record store.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ehr/hms/internal/platform/store"
)

const namespace = "hms"

// unmatchedRoute labels requests that hit no registered route, so unknown
// paths cannot grow the label set.
const unmatchedRoute = "<unmatched>"

var defaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics owns a private registry and the HTTP server metrics.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   defaultDurationBuckets,
		}, []string{"method", "route"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of HTTP requests in flight.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.active,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry is exposed for tests and for registering extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request count, latency and in-flight requests.
// Errors returned by later handlers are counted with the status they will
// be rendered with.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.active.Inc()
			defer m.active.Dec()

			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			method := c.Request().Method
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(method, route, strconv.Itoa(statusOf(c, err))).Inc()
			return err
		}
	}
}

func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// CollectionLoader is the part of the record store the collection
// collector reads.
type CollectionLoader interface {
	Load(ctx context.Context, c store.Collection) ([]store.Record, error)
}

// RegisterStore adds per-collection record counts, read on every scrape.
func (m *Metrics) RegisterStore(st CollectionLoader) {
	m.registry.MustRegister(newCollectionCollector(st))
}

// RegisterPool adds connection gauges for the Postgres pool.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) {
	gauge := func(name, help string, value func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(pool.Stat()) })
	}
	m.registry.MustRegister(
		gauge("total_connections", "Connections currently open.",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("acquired_connections", "Connections checked out of the pool.",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("idle_connections", "Idle connections.",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("max_connections", "Configured pool size.",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
	)
}

// collectionCollector loads every collection at scrape time.
type collectionCollector struct {
	store   CollectionLoader
	timeout time.Duration
	records *prometheus.Desc
	healthy *prometheus.Desc
}

func newCollectionCollector(st CollectionLoader) *collectionCollector {
	return &collectionCollector{
		store:   st,
		timeout: 5 * time.Second,
		records: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "collection", "records"),
			"Records currently stored in a collection.",
			[]string{"collection"}, nil,
		),
		healthy: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "collection", "readable"),
			"1 when the collection could be read, 0 when it is corrupt or unreachable.",
			[]string{"collection"}, nil,
		),
	}
}

func (cc *collectionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cc.records
	ch <- cc.healthy
}

func (cc *collectionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), cc.timeout)
	defer cancel()
	for _, c := range store.All {
		records, err := cc.store.Load(ctx, c)
		readable := 1.0
		if err != nil {
			readable = 0
		}
		ch <- prometheus.MustNewConstMetric(cc.records, prometheus.GaugeValue, float64(len(records)), c.String())
		ch <- prometheus.MustNewConstMetric(cc.healthy, prometheus.GaugeValue, readable, c.String())
	}
}
