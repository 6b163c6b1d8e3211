package nbfs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors updated by a Router. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	builds        prometheus.Counter
	buildFailures prometheus.Counter
	cacheHits     prometheus.Counter
	requests      *prometheus.CounterVec
	cached        prometheus.Gauge
}

// NewMetrics creates the router collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nbfs_projection_builds_total",
			Help: "Total number of notebook projections built.",
		}),
		buildFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nbfs_projection_build_failures_total",
			Help: "Total number of notebook projections that failed to build.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nbfs_projection_cache_hits_total",
			Help: "Total number of projection lookups served from the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nbfs_requests_total",
			Help: "Total number of router requests by operation.",
		}, []string{"op"}),
		cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nbfs_projections_cached",
			Help: "Number of notebook projections currently cached.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.builds, m.buildFailures, m.cacheHits, m.requests, m.cached)
	}
	return m
}

func (m *Metrics) request(op string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op).Inc()
}

func (m *Metrics) built(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.buildFailures.Inc()
		return
	}
	m.builds.Inc()
}

func (m *Metrics) setCached(n int) {
	if m == nil {
		return
	}
	m.cached.Set(float64(n))
}

func (m *Metrics) hit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}
