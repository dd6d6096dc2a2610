// Package metrics exposes chronokv's Prometheus instrumentation. The shape —
// a single Metrics struct of promauto-registered collectors, grouped by
// subsystem, built by one constructor — is grounded on the teacher's
// storage-node/internal/metrics/prometheus.go; the collector set itself is
// rescoped from storage-engine concerns (memtables, SSTables, gossip) to
// chronokv's write/guard/WAL pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector chronokv registers.
type Metrics struct {
	WritesTotal  prometheus.Counter
	DeletesTotal prometheus.Counter

	// ProposalsTotal is keyed by the final WriteResult's String() form
	// ("Accept", "CounterOffer", "Reject") after policy arbitration.
	ProposalsTotal *prometheus.CounterVec

	// GuardTriggeredTotal is keyed by guard name, incremented whenever a
	// guard's verdict is not Accept.
	GuardTriggeredTotal *prometheus.CounterVec

	ExplainRequestsTotal prometheus.Counter

	SnapshotsTotal     prometheus.Counter
	WALAppendsTotal    prometheus.Counter
	WALAppendDuration  prometheus.Histogram
	WALDurabilityState prometheus.Gauge

	KeysTotal     prometheus.Gauge
	VersionsTotal prometheus.Gauge
}

var global *Metrics

// New creates and registers every collector under the "chronokv" namespace.
// A second call returns the same instance rather than re-registering with
// the default Prometheus registry, which would panic — grounded on the
// teacher's api-gateway globalMetrics guard in internal/metrics/prometheus.go.
func New() *Metrics {
	if global != nil {
		return global
	}

	global = &Metrics{
		WritesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Total number of successful direct writes.",
		}),
		DeletesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "store",
			Name:      "deletes_total",
			Help:      "Total number of successful key deletions.",
		}),
		ProposalsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "policy",
			Name:      "proposals_total",
			Help:      "Total number of write proposals by final result.",
		}, []string{"result"}),
		GuardTriggeredTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "guard",
			Name:      "triggered_total",
			Help:      "Total number of non-accept guard verdicts by guard name.",
		}, []string{"guard"}),
		ExplainRequestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "store",
			Name:      "explain_requests_total",
			Help:      "Total number of Explain calls.",
		}),
		SnapshotsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "wal",
			Name:      "snapshots_total",
			Help:      "Total number of snapshot compactions performed.",
		}),
		WALAppendsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "chronokv",
			Subsystem: "wal",
			Name:      "appends_total",
			Help:      "Total number of WAL record appends.",
		}),
		WALAppendDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chronokv",
			Subsystem: "wal",
			Name:      "append_duration_seconds",
			Help:      "Histogram of WAL append latencies.",
			Buckets:   prometheus.DefBuckets,
		}),
		WALDurabilityState: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "chronokv",
			Subsystem: "wal",
			Name:      "durable",
			Help:      "1 if the WAL is open and accepting durable writes, 0 if degraded.",
		}),
		KeysTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "chronokv",
			Subsystem: "store",
			Name:      "keys_total",
			Help:      "Current number of distinct keys with at least one version.",
		}),
		VersionsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "chronokv",
			Subsystem: "store",
			Name:      "versions_total",
			Help:      "Current number of versions stored across all keys.",
		}),
	}

	return global
}
