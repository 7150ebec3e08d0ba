// Package nats provides the JetStream-backed implementation of the durable
// queue contract. A work-queue stream holds published events; a durable pull
// consumer with explicit acks gives long-poll receive, per-delivery receipt
// handles, and redelivery of unacknowledged messages after the ack wait.
package nats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mailvault-systems/mailvault-stack/common/messaging"
)

// Config holds JetStream queue configuration.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// Name is the client name for connection identification.
	Name string

	// Stream is the JetStream stream name.
	Stream string

	// Subject is the subject events are published to and consumed from.
	Subject string

	// Consumer is the durable pull consumer name.
	Consumer string

	// AckWait is the visibility timeout: how long an unacknowledged
	// delivery stays invisible before it becomes eligible for redelivery.
	AckWait time.Duration

	// MaxAckPending is the maximum number of unacknowledged deliveries.
	MaxAckPending int

	// MaxReconnects is the maximum number of reconnection attempts.
	// Use -1 for infinite reconnects.
	MaxReconnects int

	// ReconnectWait is the time to wait between reconnection attempts.
	ReconnectWait time.Duration

	// Timeout is the connection timeout.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Name:          "mailvault-client",
		Stream:        "MAIL_EVENTS",
		Subject:       "mail.events",
		Consumer:      "archiver",
		AckWait:       30 * time.Second,
		MaxAckPending: 100,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// Queue implements messaging.Queue on top of NATS JetStream.
type Queue struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	consumer jetstream.Consumer
	subject  string
	ackWait  time.Duration

	mu       sync.Mutex
	inflight map[string]inflightDelivery
}

type inflightDelivery struct {
	msg     jetstream.Msg
	expires time.Time
}

// NewQueue connects to NATS and ensures the stream and durable consumer
// exist. The stream uses work-queue retention: a message is removed once
// its single consumer acknowledges it.
func NewQueue(ctx context.Context, cfg Config) (*Queue, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{cfg.Subject},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create/update stream %s: %w", cfg.Stream, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          cfg.Consumer,
		Durable:       cfg.Consumer,
		FilterSubject: cfg.Subject,
		AckWait:       cfg.AckWait,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxAckPending: cfg.MaxAckPending,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create/update consumer %s: %w", cfg.Consumer, err)
	}

	return &Queue{
		conn:     conn,
		js:       js,
		consumer: consumer,
		subject:  cfg.Subject,
		ackWait:  cfg.AckWait,
		inflight: make(map[string]inflightDelivery),
	}, nil
}

// Send publishes a message with its attribute header and waits for the
// stream's acknowledgment.
func (q *Queue) Send(ctx context.Context, body []byte, attrs messaging.Attributes) (string, error) {
	header, err := encodeAttributes(attrs)
	if err != nil {
		return "", fmt.Errorf("encode attributes: %w", err)
	}

	msg := &nats.Msg{
		Subject: q.subject,
		Data:    body,
		Header:  header,
	}

	ack, err := q.js.PublishMsg(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", q.subject, err)
	}

	return fmt.Sprintf("%s:%d", ack.Stream, ack.Sequence), nil
}

// Receive fetches up to maxMessages deliveries, long-polling up to wait.
// Each delivery is registered in-flight under a fresh receipt handle until
// Delete acknowledges it or the ack wait expires.
func (q *Queue) Receive(ctx context.Context, maxMessages int, wait time.Duration) ([]*messaging.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.pruneExpired()

	batch, err := q.consumer.Fetch(maxMessages, jetstream.FetchMaxWait(wait))
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	var msgs []*messaging.Message
	for jmsg := range batch.Messages() {
		msgs = append(msgs, q.track(jmsg))
	}

	if err := batch.Error(); err != nil && len(msgs) == 0 {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return msgs, nil
}

func (q *Queue) track(jmsg jetstream.Msg) *messaging.Message {
	handle := uuid.New().String()

	id := handle
	if meta, err := jmsg.Metadata(); err == nil {
		id = fmt.Sprintf("%s:%d", meta.Stream, meta.Sequence.Stream)
	}

	q.mu.Lock()
	q.inflight[handle] = inflightDelivery{
		msg:     jmsg,
		expires: time.Now().Add(q.ackWait),
	}
	q.mu.Unlock()

	return &messaging.Message{
		ID:            id,
		Body:          jmsg.Data(),
		Attributes:    decodeAttributes(jmsg.Headers()),
		ReceiptHandle: handle,
	}
}

// pruneExpired drops in-flight entries whose ack wait has lapsed. Their
// messages are redelivered by the server under new handles, so the stale
// entries only hold memory.
func (q *Queue) pruneExpired() {
	now := time.Now()
	q.mu.Lock()
	defer q.mu.Unlock()
	for handle, d := range q.inflight {
		if now.After(d.expires) {
			delete(q.inflight, handle)
		}
	}
}

// Delete acknowledges the delivery identified by receiptHandle, removing
// the message from the work queue.
func (q *Queue) Delete(ctx context.Context, receiptHandle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	d, ok := q.inflight[receiptHandle]
	if ok {
		delete(q.inflight, receiptHandle)
	}
	q.mu.Unlock()

	if !ok {
		return messaging.ErrUnknownReceipt
	}

	if err := d.msg.Ack(); err != nil {
		return fmt.Errorf("ack message: %w", err)
	}
	return nil
}

// Close closes the NATS connection.
func (q *Queue) Close() error {
	q.conn.Close()
	return nil
}

// IsConnected returns true if the client is connected to the broker.
func (q *Queue) IsConnected() bool {
	return q.conn.IsConnected()
}
