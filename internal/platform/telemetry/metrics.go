package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fragment lookup results.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultMissing = "missing"
	ResultError   = "error"
)

// BlogMetrics holds the blog's Prometheus collectors, served on /-/metrics
// next to the Go runtime collectors. A nil *BlogMetrics records nothing.
type BlogMetrics struct {
	fragmentLookups *prometheus.CounterVec
	fragmentEvicts  prometheus.Counter
	catalogQueries  *prometheus.CounterVec
	pageEntries     prometheus.Histogram
}

// NewBlogMetrics creates the collectors and registers them with reg.
func NewBlogMetrics(reg prometheus.Registerer) (*BlogMetrics, error) {
	m := &BlogMetrics{
		fragmentLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "fragments",
			Name:      "lookups_total",
			Help:      "Fragment lookups by cache result.",
		}, []string{"result"}),
		fragmentEvicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "fragments",
			Name:      "evictions_total",
			Help:      "Cached fragments dropped after their file changed.",
		}),
		catalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog queries by operation.",
		}, []string{"operation"}),
		pageEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blog",
			Subsystem: "catalog",
			Name:      "page_entries",
			Help:      "Number of entries returned per listing page.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
	}

	for _, c := range []prometheus.Collector{m.fragmentLookups, m.fragmentEvicts, m.catalogQueries, m.pageEntries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// FragmentLookup counts one fragment read with its cache result.
func (m *BlogMetrics) FragmentLookup(result string) {
	if m == nil {
		return
	}

	m.fragmentLookups.WithLabelValues(result).Inc()
}

// FragmentEvicted counts one cache invalidation.
func (m *BlogMetrics) FragmentEvicted() {
	if m == nil {
		return
	}

	m.fragmentEvicts.Inc()
}

// CatalogQuery counts one catalog operation and, for listings, the page size
// actually returned.
func (m *BlogMetrics) CatalogQuery(operation string, returned int) {
	if m == nil {
		return
	}

	m.catalogQueries.WithLabelValues(operation).Inc()

	if returned >= 0 {
		m.pageEntries.Observe(float64(returned))
	}
}
