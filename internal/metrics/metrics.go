package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all the application metrics
type Metrics struct {
	// HTTP request metrics
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Marketplace activity metrics
	BidsPlacedTotal    prometheus.Counter
	ListingsSoldTotal  prometheus.Counter
	ListingsSweptTotal prometheus.Counter

	// Ledger metrics
	LedgerEntriesTotal   *prometheus.CounterVec
	WithdrawalsResolved  *prometheus.CounterVec
	ConcurrencyConflicts prometheus.Counter
}

// Global metrics instance with mutex for thread safety
var (
	globalMetrics *Metrics
	metricsMutex  sync.Mutex
)

// NewMetrics creates a new Metrics instance with all required metrics
func NewMetrics() *Metrics {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	if globalMetrics != nil {
		return globalMetrics
	}

	m := &Metrics{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),

		BidsPlacedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_bids_placed_total",
			Help: "Total number of bids placed",
		}),

		ListingsSoldTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_listings_sold_total",
			Help: "Total number of listings sold via bid acceptance",
		}),

		ListingsSweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_listings_swept_total",
			Help: "Total number of listings expired by the sweep job",
		}),

		LedgerEntriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_entries_total",
			Help: "Total number of ledger entries posted",
		}, []string{"type"}),

		WithdrawalsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawals_resolved_total",
			Help: "Total number of withdrawal requests resolved",
		}, []string{"decision"}),

		ConcurrencyConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "concurrency_conflicts_total",
			Help: "Total number of optimistic concurrency retries exhausted",
		}),
	}

	registerMetrics(m)

	globalMetrics = m

	return m
}

// registerMetrics registers all metrics with the default registry
func registerMetrics(m *Metrics) {
	registerOrGet(m.HTTPRequestTotal)
	registerOrGet(m.HTTPRequestDuration)
	registerOrGet(m.BidsPlacedTotal)
	registerOrGet(m.ListingsSoldTotal)
	registerOrGet(m.ListingsSweptTotal)
	registerOrGet(m.LedgerEntriesTotal)
	registerOrGet(m.WithdrawalsResolved)
	registerOrGet(m.ConcurrencyConflicts)
}

// registerOrGet tries to register a metric, returns the existing one if already registered
func registerOrGet(c prometheus.Collector) prometheus.Collector {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
	}
	return c
}
