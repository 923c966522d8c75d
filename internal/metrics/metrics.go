// Package metrics exposes prometheus counters and gauges for the node's
// cooperative loops: consensus round duration, ledger close interval,
// sync lag, and tx pool size, per SPEC_FULL.md's ambient stack section.
// The teacher repo pulls in prometheus/client_golang only transitively
// (through its storage stack); here it is wired directly.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors bundles every metric the node registers. A single instance is
// constructed at node startup and updated by the node's consensus loop,
// sync loop, and TX handler. LedgerCloseInterval and SyncLag are registered
// but nothing in the node observes or sets them.
type Collectors struct {
	ConsensusRoundDuration prometheus.Histogram
	ConsensusRoundsTaken   prometheus.Histogram
	ByzantineExcludedTotal prometheus.Counter

	LedgerCloseInterval prometheus.Histogram
	LedgerSequence      prometheus.Gauge

	SyncLag       prometheus.Gauge
	SyncAttempts  prometheus.Counter
	SyncFailures  prometheus.Counter

	TxPoolSize      prometheus.Gauge
	TxPoolAdmitted  prometheus.Counter
	TxPoolRejected  prometheus.Counter
}

// New registers every collector against a dedicated registry (not the
// global default one, so multiple nodes can run in the same test process
// without a "duplicate metrics collector registration" panic).
func New() (*Collectors, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collectors{
		ConsensusRoundDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nxfd_consensus_round_duration_seconds",
			Help:    "Wall-clock duration of a single consensus round group.",
			Buckets: prometheus.DefBuckets,
		}),
		ConsensusRoundsTaken: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nxfd_consensus_rounds_taken",
			Help:    "Number of rounds a consensus instance took to reach ACCEPTED or FAILED.",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		}),
		ByzantineExcludedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "nxfd_consensus_byzantine_excluded_total",
			Help: "Cumulative count of validators excluded for equivocation or invalid signatures.",
		}),
		LedgerCloseInterval: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nxfd_ledger_close_interval_seconds",
			Help:    "Wall-clock time between successive ledger closes.",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerSequence: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nxfd_ledger_sequence",
			Help: "Current ledger sequence number.",
		}),
		SyncLag: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nxfd_sync_lag_ledgers",
			Help: "Ledgers behind the last-seen peer tip.",
		}),
		SyncAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "nxfd_sync_attempts_total",
			Help: "Cumulative sync attempts, automatic or explicit.",
		}),
		SyncFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "nxfd_sync_failures_total",
			Help: "Cumulative sync attempts that ended in rejection or error.",
		}),
		TxPoolSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nxfd_txpool_size",
			Help: "Current number of pending transactions.",
		}),
		TxPoolAdmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "nxfd_txpool_admitted_total",
			Help: "Cumulative transactions admitted to the pool.",
		}),
		TxPoolRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "nxfd_txpool_rejected_total",
			Help: "Cumulative transactions rejected at pool admission.",
		}),
	}, reg
}

// Handler returns the /metrics HTTP handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
