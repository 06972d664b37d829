package processor

import "github.com/prometheus/client_golang/prometheus"

var (
	queueLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fitsync_sync_queue_length",
		Help: "Pending outbox items as of the last refresh.",
	})
	inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fitsync_sync_in_progress",
		Help: "1 while a drain is running.",
	})
	itemsApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fitsync_sync_items_applied_total",
		Help: "Outbox items applied remotely.",
	})
	itemsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fitsync_sync_items_failed_total",
		Help: "Failed pushes by classification. Every failure is retried.",
	}, []string{"class"})
	drainsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fitsync_sync_drains_skipped_total",
		Help: "Drains that did nothing, by reason.",
	}, []string{"reason"})
	drainDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fitsync_sync_drain_duration_seconds",
		Help:    "Duration of drains that ran.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(queueLength, inFlight, itemsApplied, itemsFailed, drainsSkipped, drainDuration)
}
