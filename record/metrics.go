package record

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	CacheHits prometheus.Counter
	Fetches   *prometheus.CounterVec
}

// NewMetrics registers the loader counters on reg unless it is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reportviewer",
			Subsystem: "record",
			Name:      "cache_hits_total",
			Help:      "Record loads answered from the in-memory cache.",
		}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reportviewer",
			Subsystem: "record",
			Name:      "fetches_total",
			Help:      "Record fetches by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.CacheHits, m.Fetches)
	}
	return m
}
