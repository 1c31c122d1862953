package directory

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/roomtag/pkg/core"
)

const (
	outcomeHit       = "hit"
	outcomeRecovered = "recovered"
	outcomeMiss      = "miss"
	outcomeInvalid   = "invalid"
)

// Metrics holds the directory counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups    *prometheus.CounterVec
	created    *prometheus.CounterVec
	anchors    prometheus.Counter
	reconciles prometheus.Counter
	stale      prometheus.Counter
}

// NewMetrics creates the counters and registers them on reg when it is not nil.
// Share one Metrics between the directories of a process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomtag",
			Subsystem: "directory",
			Name:      "lookups_total",
			Help:      "Record lookups by region kind and outcome",
		}, []string{"kind", "outcome"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomtag",
			Subsystem: "directory",
			Name:      "records_created_total",
			Help:      "Records created by get-or-create calls",
		}, []string{"kind"}),
		anchors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roomtag",
			Subsystem: "directory",
			Name:      "anchors_synchronized_total",
			Help:      "Anchors re-pointed at a room record",
		}),
		reconciles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roomtag",
			Subsystem: "directory",
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation passes",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roomtag",
			Subsystem: "directory",
			Name:      "reconcile_stale_entries_total",
			Help:      "Tracked room entries that no longer resolve to a room",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.created, m.anchors, m.reconciles, m.stale)
	}
	return m
}

func (m *Metrics) lookup(kind core.RegionKind, outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind.String(), outcome).Inc()
}

func (m *Metrics) create(kind core.RegionKind) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) synced(n int) {
	if m == nil || n == 0 {
		return
	}
	m.anchors.Add(float64(n))
}

func (m *Metrics) reconciled(r ReconcileReport) {
	if m == nil {
		return
	}
	m.reconciles.Inc()
	if r.Stale > 0 {
		m.stale.Add(float64(r.Stale))
	}
}
