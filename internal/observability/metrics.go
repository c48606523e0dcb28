package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the API service.
type Metrics struct {
	FetchAttempts *prometheus.CounterVec // labels: outcome={success,no_document,network_error,extract_error}
	CacheLookups  *prometheus.CounterVec // labels: result={hit,miss}
	ChatQueries   *prometheus.CounterVec // labels: intent={canned,retrieval,not_found,snippet_fallback}
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "fetch_attempts_total",
			Help:      "Bulletin fetch attempts by outcome.",
		}, []string{"outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		ChatQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "chat_queries_total",
			Help:      "Chat queries by resolved intent branch.",
		}, []string{"intent"}),
	}
}

// New creates and registers all service metrics with the default registry.
func New() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.FetchAttempts, m.CacheLookups, m.ChatQueries)
	return m
}

// NewForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewForTesting() *Metrics {
	return newMetrics()
}

// IncFetch records a bulletin fetch attempt outcome. Safe on a nil receiver.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(outcome).Inc()
}

// IncCache records a cache lookup result. Safe on a nil receiver.
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// IncChat records which answer branch served a query. Safe on a nil receiver.
func (m *Metrics) IncChat(intent string) {
	if m == nil {
		return
	}
	m.ChatQueries.WithLabelValues(intent).Inc()
}
