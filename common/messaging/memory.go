package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue is an in-memory Queue with real visibility-timeout semantics.
// It backs tests and single-process development setups; production deploys
// use the JetStream-backed queue.
type MemoryQueue struct {
	mu         sync.Mutex
	visibility time.Duration
	items      []*memoryItem
	closed     bool
}

type memoryItem struct {
	id             string
	body           []byte
	attrs          Attributes
	invisibleUntil time.Time
	receipt        string
}

// NewMemoryQueue creates an in-memory queue. Deliveries that are not deleted
// become visible again after the given visibility timeout.
func NewMemoryQueue(visibility time.Duration) *MemoryQueue {
	return &MemoryQueue{visibility: visibility}
}

// Send enqueues a message.
func (q *MemoryQueue) Send(ctx context.Context, body []byte, attrs Attributes) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	item := &memoryItem{
		id:    uuid.New().String(),
		body:  append([]byte(nil), body...),
		attrs: attrs,
	}
	q.items = append(q.items, item)
	return item.id, nil
}

// Receive returns up to maxMessages currently visible messages, polling
// until wait elapses when the queue is empty.
func (q *MemoryQueue) Receive(ctx context.Context, maxMessages int, wait time.Duration) ([]*Message, error) {
	deadline := time.Now().Add(wait)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msgs := q.receiveVisible(maxMessages)
		if len(msgs) > 0 {
			return msgs, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (q *MemoryQueue) receiveVisible(maxMessages int) []*Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	var msgs []*Message
	for _, item := range q.items {
		if len(msgs) >= maxMessages {
			break
		}
		if now.Before(item.invisibleUntil) {
			continue
		}

		// Each delivery gets a fresh receipt handle; the previous one, if
		// any, becomes stale.
		item.invisibleUntil = now.Add(q.visibility)
		item.receipt = uuid.New().String()

		msgs = append(msgs, &Message{
			ID:            item.id,
			Body:          append([]byte(nil), item.body...),
			Attributes:    item.attrs,
			ReceiptHandle: item.receipt,
		})
	}
	return msgs
}

// Delete removes the delivery identified by receiptHandle. Handles from
// deliveries whose visibility timeout has produced a redelivery are stale
// and rejected.
func (q *MemoryQueue) Delete(ctx context.Context, receiptHandle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if item.receipt == receiptHandle && receiptHandle != "" {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return nil
		}
	}
	return ErrUnknownReceipt
}

// Close releases the queue. Pending messages are discarded.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.closed = true
	return nil
}

// Len reports how many messages remain in the queue, visible or not.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
