// Package secrets resolves shared secrets from an external parameter store.
// The relay's publish gate compares the caller-submitted token against the
// value resolved here; resolution failures are hard errors, never silently
// replaced with a default.
package secrets

import (
	"context"
	"errors"
)

// ErrNotFound means the named secret does not exist in the store.
var ErrNotFound = errors.New("secrets: not found")

// ErrUnavailable means the store could not be reached.
var ErrUnavailable = errors.New("secrets: store unavailable")

// Store resolves secret values by name.
type Store interface {
	// Get returns the secret value stored under name.
	// Fails with ErrNotFound or ErrUnavailable.
	Get(ctx context.Context, name string) (string, error)

	// Close releases any resources held by the store client.
	Close() error
}
