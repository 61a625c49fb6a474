package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultUpdated   = "updated"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

var (
	reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orggatekeeper_reconciliations_total",
		Help: "Number of organisation-unit reconciliations by result.",
	}, []string{"result"})

	lastRun = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orggatekeeper_last_run_timestamp_seconds",
		Help: "Unix timestamp of the most recent reconciliation.",
	})
)

// ObserveReconciliation records the outcome of a single unit reconciliation.
// In dry-run mode a would-be edit still counts as updated.
func ObserveReconciliation(updated bool, err error) {
	switch {
	case err != nil:
		reconciliations.WithLabelValues(ResultError).Inc()
	case updated:
		reconciliations.WithLabelValues(ResultUpdated).Inc()
	default:
		reconciliations.WithLabelValues(ResultUnchanged).Inc()
	}
	lastRun.SetToCurrentTime()
}
