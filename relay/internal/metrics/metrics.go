package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PublishRequestsTotal counts publish requests by outcome.
	PublishRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailvault_relay_publish_requests_total",
			Help: "Total number of publish requests by outcome",
		},
		[]string{"status"},
	)

	// EventBytesTotal counts the bytes of event bodies submitted to the queue.
	EventBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailvault_relay_event_bytes_total",
			Help: "Total bytes of event data published to the queue",
		},
	)

	// QueueSendDuration observes the queue submission round-trip.
	QueueSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mailvault_relay_queue_send_duration_seconds",
			Help:    "Duration of queue send operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Outcome labels for PublishRequestsTotal.
const (
	StatusAccepted        = "accepted"
	StatusInvalidRequest  = "invalid_request"
	StatusInvalidToken    = "invalid_token"
	StatusCredentialError = "credential_error"
	StatusPublishFailure  = "publish_failure"
)
