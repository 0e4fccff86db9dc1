package txtmesh

import "github.com/prometheus/client_golang/prometheus"

// Prometheus collectors for a single [Drawer].
type drawerMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	evictions   prometheus.Counter
	entries     prometheus.Gauge
	generation  prometheus.Histogram
	failures    prometheus.Counter
	colorPushes prometheus.Counter
}

func newDrawerMetrics(registerer prometheus.Registerer) (*drawerMetrics, error) {
	metrics := &drawerMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txtmesh",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Draws served with an already cached mesh.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txtmesh",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Draws that required generating a new mesh.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txtmesh",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Meshes evicted to respect the cache capacity.",
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "txtmesh",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Meshes currently cached.",
		}),
		generation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "txtmesh",
			Name:      "generation_seconds",
			Help:      "Time spent generating meshes.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txtmesh",
			Name:      "generation_failures_total",
			Help:      "Mesh generations that failed.",
		}),
		colorPushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "txtmesh",
			Name:      "color_pushes_total",
			Help:      "Color changes pushed to the renderer color state.",
		}),
	}

	collectors := []prometheus.Collector{
		metrics.hits, metrics.misses, metrics.evictions, metrics.entries,
		metrics.generation, metrics.failures, metrics.colorPushes,
	}
	for i, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			for _, registered := range collectors[:i] {
				registerer.Unregister(registered)
			}
			return nil, err
		}
	}
	return metrics, nil
}

// Unregisters all the collectors.
func (self *drawerMetrics) unregister(registerer prometheus.Registerer) {
	registerer.Unregister(self.hits)
	registerer.Unregister(self.misses)
	registerer.Unregister(self.evictions)
	registerer.Unregister(self.entries)
	registerer.Unregister(self.generation)
	registerer.Unregister(self.failures)
	registerer.Unregister(self.colorPushes)
}
