// Package consumer runs the poll-process-archive loop. It long-polls the
// durable queue, archives each message, deletes the message only after the
// store confirms the write, and keeps the archived-count registry current.
package consumer

import (
	"context"
	"time"

	"github.com/mailvault-systems/mailvault-stack/archiver/internal/archive"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/metrics"
	"github.com/mailvault-systems/mailvault-stack/archiver/internal/registry"
	"github.com/mailvault-systems/mailvault-stack/common/logging"
	"github.com/mailvault-systems/mailvault-stack/common/messaging"
)

// Config holds consumer loop tuning.
type Config struct {
	// BatchSize is the receive batch ceiling per poll.
	BatchSize int

	// WaitTime is the long-poll wait per receive call.
	WaitTime time.Duration

	// PollInterval is the sleep between poll cycles, and the backoff after
	// a failed poll.
	PollInterval time.Duration
}

// DefaultConfig returns the reference polling parameters.
func DefaultConfig() Config {
	return Config{
		BatchSize:    10,
		WaitTime:     20 * time.Second,
		PollInterval: 5 * time.Second,
	}
}

// Loop is the long-running consumer. It has no terminal state of its own;
// it polls until the context is canceled, letting the in-flight batch
// finish before returning.
type Loop struct {
	queue    messaging.Queue
	archiver *archive.Archiver
	registry *registry.Registry
	cfg      Config
	log      *logging.Logger
}

// New creates a consumer Loop.
func New(queue messaging.Queue, archiver *archive.Archiver, reg *registry.Registry, cfg Config, log *logging.Logger) *Loop {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Loop{
		queue:    queue,
		archiver: archiver,
		registry: reg,
		cfg:      cfg,
		log:      log,
	}
}

// Run polls the queue until ctx is canceled. Poll failures are logged and
// retried after the poll interval; they never stop the loop.
func (l *Loop) Run(ctx context.Context) {
	l.log.InfoContext(ctx, "consumer loop started",
		"batch_size", l.cfg.BatchSize,
		"wait_time", l.cfg.WaitTime.String(),
		"poll_interval", l.cfg.PollInterval.String(),
	)

	for {
		if ctx.Err() != nil {
			l.log.InfoContext(ctx, "consumer loop stopped")
			return
		}

		msgs, err := l.queue.Receive(ctx, l.cfg.BatchSize, l.cfg.WaitTime)
		if err != nil {
			if ctx.Err() != nil {
				l.log.InfoContext(ctx, "consumer loop stopped")
				return
			}
			metrics.PollErrorsTotal.Inc()
			l.log.ErrorContext(ctx, "queue poll failed", logging.Error(err))
			if !l.sleep(ctx) {
				return
			}
			continue
		}

		metrics.MessagesReceivedTotal.Add(float64(len(msgs)))
		for _, msg := range msgs {
			l.process(ctx, msg)
		}

		if !l.sleep(ctx) {
			return
		}
	}
}

// process handles one message. Any failure leaves the message in the queue
// for redelivery after the visibility timeout and never aborts the batch.
func (l *Loop) process(ctx context.Context, msg *messaging.Message) {
	if len(msg.Attributes) == 0 {
		metrics.FailuresTotal.WithLabelValues(metrics.ReasonMissingAttributes).Inc()
		l.log.WarnContext(ctx, "message has no attributes, leaving for redelivery",
			logging.MessageID(msg.ID),
		)
		return
	}

	key := archive.DeriveKey(msg.Attributes)

	start := time.Now()
	err := l.archiver.Archive(ctx, key, msg.Attributes)
	metrics.ArchiveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FailuresTotal.WithLabelValues(metrics.ReasonStorageError).Inc()
		l.log.ErrorContext(ctx, "archive failed, leaving message for redelivery",
			logging.MessageID(msg.ID),
			logging.ObjectKey(key),
			logging.Error(err),
		)
		return
	}

	l.registry.Increment()
	metrics.ArchivedTotal.Inc()

	if err := l.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		// The object is stored; redelivery will overwrite it under the
		// same key rather than lose it.
		metrics.FailuresTotal.WithLabelValues(metrics.ReasonDeleteError).Inc()
		l.log.ErrorContext(ctx, "delete after archive failed, message may be redelivered",
			logging.MessageID(msg.ID),
			logging.ObjectKey(key),
			logging.Error(err),
		)
		return
	}

	l.log.DebugContext(ctx, "message archived",
		logging.MessageID(msg.ID),
		logging.ObjectKey(key),
	)
}

// sleep waits one poll interval, returning false when the context is
// canceled first.
func (l *Loop) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		l.log.InfoContext(ctx, "consumer loop stopped")
		return false
	case <-time.After(l.cfg.PollInterval):
		return true
	}
}
