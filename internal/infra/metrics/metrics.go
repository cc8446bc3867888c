package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var resourcesSuspendedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "tarnfui_resources_suspended_total",
		Help: "Total number of workload resources suspended, per kind.",
	},
	[]string{"kind"},
)

var resourcesResumedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "tarnfui_resources_resumed_total",
		Help: "Total number of workload resources restored, per kind.",
	},
	[]string{"kind"},
)

var managerCascadesTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "tarnfui_manager_cascades_total",
		Help: "Total number of manager resources suspended or resumed ahead of their children.",
	},
	[]string{"kind", "direction"},
)

var reconcilePassDuration = promauto.With(prometheus.DefaultRegisterer).NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "tarnfui_reconcile_pass_duration_seconds",
		Help:    "Duration of one full suspend or resume pass across all handlers.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	},
	[]string{"action"},
)

var clusterShouldBeActive = promauto.With(prometheus.DefaultRegisterer).NewGauge(
	prometheus.GaugeOpts{
		Name: "tarnfui_cluster_should_be_active",
		Help: "1 when the current time falls inside the active window, 0 otherwise.",
	},
)

// RecordSuspended increments the suspension counter for a kind.
func RecordSuspended(kind string) {
	resourcesSuspendedTotal.WithLabelValues(kind).Inc()
}

// RecordResumed increments the restoration counter for a kind.
func RecordResumed(kind string) {
	resourcesResumedTotal.WithLabelValues(kind).Inc()
}

// RecordManagerCascade increments the cascade counter for a manager kind and
// direction ("suspend" or "resume").
func RecordManagerCascade(kind, direction string) {
	managerCascadesTotal.WithLabelValues(kind, direction).Inc()
}

// ObserveReconcilePass records the duration of one full pass for an action
// ("suspend" or "resume").
func ObserveReconcilePass(action string, d time.Duration) {
	reconcilePassDuration.WithLabelValues(action).Observe(d.Seconds())
}

// SetShouldBeActive publishes the current window decision.
func SetShouldBeActive(active bool) {
	if active {
		clusterShouldBeActive.Set(1)

		return
	}

	clusterShouldBeActive.Set(0)
}
