// Package publisher implements the validate-and-publish path: it gates the
// request on the shared token, validates the event shape, and submits the
// event to the durable queue with one string-typed attribute per field.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mailvault-systems/mailvault-stack/common/logging"
	"github.com/mailvault-systems/mailvault-stack/common/messaging"
	"github.com/mailvault-systems/mailvault-stack/common/secrets"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/metrics"
	"github.com/mailvault-systems/mailvault-stack/relay/internal/validator"
)

// ErrInvalidToken means the submitted token did not match the resolved
// secret.
var ErrInvalidToken = errors.New("invalid token")

// CredentialError means the publish token could not be resolved from the
// secret store. It is never substituted with a default.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("resolve publish token: %v", e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// PublishError means the queue submission failed. The caller retries the
// whole request; the publisher does not retry internally.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("submit to queue: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Receipt acknowledges a successful publish.
type Receipt struct {
	MessageID string
}

// Publisher validates events and submits them to the durable queue.
type Publisher struct {
	queue     messaging.Queue
	tokens    secrets.Store
	tokenName string
	log       *logging.Logger
}

// New creates a Publisher. tokenName is the secret store key holding the
// shared publish token.
func New(queue messaging.Queue, tokens secrets.Store, tokenName string, log *logging.Logger) *Publisher {
	return &Publisher{
		queue:     queue,
		tokens:    tokens,
		tokenName: tokenName,
		log:       log,
	}
}

// Publish validates the payload and enqueues the event.
//
// Binding order: data shape is checked first, then the token. A payload
// missing a required field reports that field even when the token is also
// wrong.
func (p *Publisher) Publish(ctx context.Context, data map[string]any, submittedToken string) (*Receipt, error) {
	event, err := validator.Validate(data)
	if err != nil {
		metrics.PublishRequestsTotal.WithLabelValues(metrics.StatusInvalidRequest).Inc()
		return nil, err
	}

	expected, err := p.tokens.Get(ctx, p.tokenName)
	if err != nil {
		metrics.PublishRequestsTotal.WithLabelValues(metrics.StatusCredentialError).Inc()
		return nil, &CredentialError{Err: err}
	}
	if submittedToken != expected {
		metrics.PublishRequestsTotal.WithLabelValues(metrics.StatusInvalidToken).Inc()
		return nil, ErrInvalidToken
	}

	body, err := json.Marshal(event)
	if err != nil {
		metrics.PublishRequestsTotal.WithLabelValues(metrics.StatusPublishFailure).Inc()
		return nil, &PublishError{Err: err}
	}

	attrs := messaging.Attributes{
		"subject":    messaging.StringAttr(event.Subject),
		"sender":     messaging.StringAttr(event.Sender),
		"timestream": messaging.StringAttr(event.Timestream),
		"content":    messaging.StringAttr(event.Content),
	}

	start := time.Now()
	id, err := p.queue.Send(ctx, body, attrs)
	metrics.QueueSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PublishRequestsTotal.WithLabelValues(metrics.StatusPublishFailure).Inc()
		return nil, &PublishError{Err: err}
	}

	metrics.PublishRequestsTotal.WithLabelValues(metrics.StatusAccepted).Inc()
	metrics.EventBytesTotal.Add(float64(len(body)))
	p.log.InfoContext(ctx, "event published",
		logging.MessageID(id),
		logging.Sender(event.Sender),
	)

	return &Receipt{MessageID: id}, nil
}
