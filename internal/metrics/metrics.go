// Package metrics collects and exposes Prometheus metrics for the gate:
// auth rejections, rate-limit decisions, cache effectiveness and backend
// latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the interface the middleware, cache and backend client
// record through. Noop satisfies it for tests.
type Recorder interface {
	AuthFailure(code string)
	RateRejection(limiter string)
	Degraded(component string)
	CacheHit(kind string)
	CacheMiss(kind string)
	BackendCall(kind string, duration time.Duration, err bool)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) AuthFailure(string)                      {}
func (Noop) RateRejection(string)                    {}
func (Noop) Degraded(string)                         {}
func (Noop) CacheHit(string)                         {}
func (Noop) CacheMiss(string)                        {}
func (Noop) BackendCall(string, time.Duration, bool) {}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	authFailures   *prometheus.CounterVec
	rateRejections *prometheus.CounterVec
	degraded       *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	backendCalls   *prometheus.CounterVec
	backendLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_auth_failures_total",
			Help: "Rejected authentication attempts by rejection code.",
		}, []string{"code"}),
		rateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_rate_rejections_total",
			Help: "Requests rejected by a rate limiter, by limiter name.",
		}, []string{"limiter"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_degraded_checks_total",
			Help: "Checks that failed open because the store was unreachable.",
		}, []string{"component"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_cache_hits_total",
			Help: "Cache hits by entry kind.",
		}, []string{"kind"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_cache_misses_total",
			Help: "Cache misses by entry kind.",
		}, []string{"kind"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glossa_backend_calls_total",
			Help: "Backend invocations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "glossa_backend_latency_seconds",
			Help:    "Backend invocation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.authFailures,
		c.rateRejections,
		c.degraded,
		c.cacheHits,
		c.cacheMisses,
		c.backendCalls,
		c.backendLatency,
	)
	return c
}

func (c *Collector) AuthFailure(code string) {
	c.authFailures.WithLabelValues(code).Inc()
}

func (c *Collector) RateRejection(limiter string) {
	c.rateRejections.WithLabelValues(limiter).Inc()
}

func (c *Collector) Degraded(component string) {
	c.degraded.WithLabelValues(component).Inc()
}

func (c *Collector) CacheHit(kind string) {
	c.cacheHits.WithLabelValues(kind).Inc()
}

func (c *Collector) CacheMiss(kind string) {
	c.cacheMisses.WithLabelValues(kind).Inc()
}

func (c *Collector) BackendCall(kind string, duration time.Duration, errored bool) {
	outcome := "ok"
	if errored {
		outcome = "error"
	}
	c.backendCalls.WithLabelValues(kind, outcome).Inc()
	c.backendLatency.Observe(duration.Seconds())
}
