package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesReceivedTotal counts messages returned by queue polls.
	MessagesReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailvault_archiver_messages_received_total",
			Help: "Total number of messages received from the queue",
		},
	)

	// ArchivedTotal counts successfully archived messages.
	ArchivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailvault_archiver_archived_total",
			Help: "Total number of messages archived to the object store",
		},
	)

	// FailuresTotal counts per-message failures by reason. Failed messages
	// stay queued and are redelivered after the visibility timeout.
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailvault_archiver_failures_total",
			Help: "Total number of per-message processing failures by reason",
		},
		[]string{"reason"},
	)

	// PollErrorsTotal counts failed queue receive calls.
	PollErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mailvault_archiver_poll_errors_total",
			Help: "Total number of failed queue polls",
		},
	)

	// ArchiveDuration observes the object-store write round-trip.
	ArchiveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mailvault_archiver_archive_duration_seconds",
			Help:    "Duration of archive writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Failure reasons for FailuresTotal.
const (
	ReasonMissingAttributes = "missing_attributes"
	ReasonStorageError      = "storage_error"
	ReasonDeleteError       = "delete_error"
)
