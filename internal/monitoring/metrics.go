package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enqueueOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_queue_enqueues_total",
			Help: "Enqueue attempts by outcome (created, duplicate, error)",
		},
		[]string{"status"},
	)

	consoleClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_claims_total",
			Help: "Poll-and-claim attempts by outcome (claimed, conflict, empty, error)",
		},
		[]string{"status"},
	)

	unlockNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unlock_notifications_total",
			Help: "Outbound unlock signals by outcome (sent, failed)",
		},
		[]string{"status"},
	)

	unlockLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "unlock_notification_duration_seconds",
			Help:    "Latency of outbound unlock calls",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

func RecordEnqueue(status string) {
	enqueueOperations.WithLabelValues(status).Inc()
}

func RecordClaim(status string) {
	consoleClaims.WithLabelValues(status).Inc()
}

func RecordUnlock(status string, seconds float64) {
	unlockNotifications.WithLabelValues(status).Inc()
	unlockLatency.Observe(seconds)
}
