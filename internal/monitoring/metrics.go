package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ContextBuildsTotal *prometheus.CounterVec
	CacheHitsTotal     prometheus.Counter
	BuildDuration      prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		ContextBuildsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sitecontext_builds_total",
			Help: "The total number of website context builds",
		}, []string{"status"}), // 'success', 'no_content', 'bad_request'
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sitecontext_cache_hits_total",
			Help: "The total number of context builds served from cache",
		}),
		BuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitecontext_build_duration_seconds",
			Help:    "Wall-clock time of full context builds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
}

func (m *Metrics) IncBuilds(status string) {
	m.ContextBuildsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncCacheHits() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) ObserveBuildDuration(seconds float64) {
	m.BuildDuration.Observe(seconds)
}
