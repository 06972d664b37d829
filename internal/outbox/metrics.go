package outbox

import "github.com/prometheus/client_golang/prometheus"

var (
	enqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitsync_outbox_enqueued_total",
			Help: "Mutations recorded in the outbox.",
		},
		[]string{"table", "operation"},
	)
	droppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitsync_outbox_dropped_ineligible_total",
			Help: "Mutations filtered out by the enqueue policy.",
		},
		[]string{"table", "operation"},
	)
	failedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fitsync_outbox_failed_attempts_total",
			Help: "Failed push attempts recorded on queued items.",
		},
	)
)

func init() {
	prometheus.MustRegister(enqueuedTotal, droppedTotal, failedTotal)
}
