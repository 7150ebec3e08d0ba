// Package messaging provides a durable-queue abstraction for the relay
// pipeline. It defines the queue contract the publisher and the archiver's
// consumer loop are written against, without coupling them to a specific
// broker implementation.
package messaging

import (
	"context"
	"errors"
	"time"
)

// StringType is the attribute data type used for all event fields.
// Every attribute is tagged as a string regardless of the field's native
// type; numeric timestamps are coerced to text at publish time.
const StringType = "String"

// ErrUnknownReceipt is returned by Delete when the receipt handle does not
// identify an in-flight delivery. The delivery may have expired and been
// redelivered under a new handle.
var ErrUnknownReceipt = errors.New("messaging: unknown receipt handle")

// Attribute is a named, typed value carried alongside a message body.
type Attribute struct {
	Value string
	Type  string
}

// Attributes maps attribute names to their typed values.
type Attributes map[string]Attribute

// StringAttr returns a string-typed attribute for the given value.
func StringAttr(value string) Attribute {
	return Attribute{Value: value, Type: StringType}
}

// Values flattens the attribute set to a plain name -> value map.
func (a Attributes) Values() map[string]string {
	if a == nil {
		return nil
	}
	out := make(map[string]string, len(a))
	for name, attr := range a {
		out[name] = attr.Value
	}
	return out
}

// Message is one delivery received from the queue. The receipt handle
// identifies this specific delivery and is required to delete the message;
// a redelivery of the same message carries a different handle.
type Message struct {
	ID            string
	Body          []byte
	Attributes    Attributes
	ReceiptHandle string
}

// Queue is a durable at-least-once message queue with long-poll receive and
// explicit per-delivery deletion. A received message that is not deleted
// becomes visible again after the queue's visibility timeout.
type Queue interface {
	// Send enqueues a message and returns its queue-assigned ID.
	Send(ctx context.Context, body []byte, attrs Attributes) (string, error)

	// Receive returns up to maxMessages messages, waiting up to wait for at
	// least one to arrive. An empty slice and nil error means the poll timed
	// out with nothing to deliver.
	Receive(ctx context.Context, maxMessages int, wait time.Duration) ([]*Message, error)

	// Delete removes the delivery identified by receiptHandle from the queue.
	Delete(ctx context.Context, receiptHandle string) error

	// Close releases any resources held by the queue client.
	Close() error
}
