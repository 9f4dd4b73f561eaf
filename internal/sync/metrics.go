package sync

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetstats",
			Name:      "sync_events_total",
			Help:      "Calendar events seen by the sync pipeline, by outcome.",
		},
		[]string{"outcome"},
	)
	deltasTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetstats",
			Name:      "rollup_deltas_total",
			Help:      "Rollup delta operations issued, by direction.",
		},
		[]string{"direction"},
	)
	lastRunUnix = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "meetstats",
			Name:      "sync_last_run_timestamp_seconds",
			Help:      "Unix time of the last completed sync run.",
		},
	)
)

// Pipeline outcome labels.
const (
	outcomeSynced         = "synced"
	outcomeSkipped        = "skipped"
	outcomeAlreadyCounted = "already_counted"
	outcomeError          = "error"
)

// InitPrometheusMetrics registers the pipeline metrics with the default
// registry. Call once at process start.
func InitPrometheusMetrics() {
	prometheus.MustRegister(eventsTotal, deltasTotal, lastRunUnix)
}
