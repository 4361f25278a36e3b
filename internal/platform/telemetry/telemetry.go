// Package telemetry exposes Prometheus metrics for the HTTP server and the
// domain operations: request counts and latencies, pool gauges and per-domain
// operation counters, served at /metrics.
package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hms"

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// MetricsEnabled nil means enabled.
	MetricsEnabled *bool
}

func (c *Config) metricsOn() bool {
	if c.MetricsEnabled == nil {
		return true
	}
	return *c.MetricsEnabled
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "hms-server"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

func BoolPtr(b bool) *bool {
	return &b
}

// Provider owns a private registry so tests can create as many as they like.
type Provider struct {
	cfg      Config
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	activeRequests prometheus.Gauge
	transitions    *prometheus.CounterVec
	operations     *prometheus.CounterVec
	poolConns      *prometheus.GaugeVec
}

func NewProvider(cfg Config) *Provider {
	cfg.applyDefaults()

	constLabels := prometheus.Labels{"service": cfg.ServiceName, "env": cfg.Environment}
	p := &Provider{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "http_active_requests",
			Help:        "Requests currently being served.",
			ConstLabels: constLabels,
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "appointment_transitions_total",
			Help:        "Appointment status changes by source and target status.",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "operations_total",
			Help:        "Domain operations by name and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		poolConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_pool_connections",
			Help:        "Database pool connections by state.",
			ConstLabels: constLabels,
		}, []string{"state"}),
	}

	p.registry.MustRegister(
		p.requests, p.duration, p.activeRequests,
		p.transitions, p.operations, p.poolConns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry is exposed for tests and for callers registering extra collectors.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// AppointmentTransition counts one committed appointment status change.
func (p *Provider) AppointmentTransition(from, to string) {
	p.transitions.WithLabelValues(from, to).Inc()
}

// Operation counts a domain operation; err decides the outcome label.
func (p *Provider) Operation(name string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.operations.WithLabelValues(name, outcome).Inc()
}

// SetPoolConns records the pool gauges reported by the health endpoint.
func (p *Provider) SetPoolConns(total, idle, acquired int32) {
	p.poolConns.WithLabelValues("total").Set(float64(total))
	p.poolConns.WithLabelValues("idle").Set(float64(idle))
	p.poolConns.WithLabelValues("acquired").Set(float64(acquired))
}

// MetricsMiddleware records request count, latency and in-flight requests.
// The route label is the registered path pattern so ids do not explode the
// label cardinality.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !p.cfg.metricsOn() || Skip(c.Request().URL.Path) {
				return next(c)
			}

			p.activeRequests.Inc()
			defer p.activeRequests.Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			p.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

// PrometheusHandler serves the registry in the Prometheus text format.
func (p *Provider) PrometheusHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

// Skip reports whether a path is excluded from request metrics.
func Skip(path string) bool {
	return path == "/metrics" || strings.HasPrefix(path, "/health")
}
