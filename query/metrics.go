package query

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes
const (
	outcomeFresh = "fresh"
	outcomeStale = "stale"
	outcomeMiss  = "miss"
)

type metrics struct {
	lookups  *prometheus.CounterVec
	fetches  *prometheus.CounterVec
	attempts prometheus.Counter
	entries  prometheus.GaugeFunc
}

func newMetrics(reg prometheus.Registerer, size func() float64) *metrics {
	m := &metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marquee_query_lookups_total",
			Help: "Query cache lookups by outcome (fresh, stale, miss).",
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marquee_query_fetches_total",
			Help: "Completed query fetches by result, after retries.",
		}, []string{"result"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marquee_query_fetch_attempts_total",
			Help: "Individual upstream attempts, including retries.",
		}),
		entries: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "marquee_query_cache_entries",
			Help: "Number of cached query results.",
		}, size),
	}

	if reg != nil {
		reg.MustRegister(m.lookups, m.fetches, m.attempts, m.entries)
	}

	return m
}

func (m *metrics) lookup(outcome string) {
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *metrics) fetched(err error) {
	if err != nil {
		m.fetches.WithLabelValues("failure").Inc()
		return
	}
	m.fetches.WithLabelValues("success").Inc()
}
