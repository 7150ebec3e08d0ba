// Package archive converts queue messages into stored objects.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mailvault-systems/mailvault-stack/archiver/internal/store"
	"github.com/mailvault-systems/mailvault-stack/common/messaging"
)

// Sentinel key components used when an attribute is absent.
const (
	UnknownSubject = "unknown_subject"
	UnknownSender  = "unknown_sender"
)

// DeriveKey builds the deterministic object key "{subject}-{sender}.json"
// from the message attributes. Distinct messages sharing subject and sender
// derive the same key; the later archive overwrites the earlier one.
func DeriveKey(attrs messaging.Attributes) string {
	subject := attrs["subject"].Value
	if subject == "" {
		subject = UnknownSubject
	}
	sender := attrs["sender"].Value
	if sender == "" {
		sender = UnknownSender
	}
	return fmt.Sprintf("%s-%s.json", subject, sender)
}

// Archiver writes attribute maps to the object store.
type Archiver struct {
	store store.ObjectStore
}

// New creates an Archiver backed by the given object store.
func New(s store.ObjectStore) *Archiver {
	return &Archiver{store: s}
}

// Archive serializes the attribute map and writes it under key. It is a
// pure side-effecting write: no read-modify-write, overwrite on collision.
func (a *Archiver) Archive(ctx context.Context, key string, attrs messaging.Attributes) error {
	body, err := json.Marshal(attrs.Values())
	if err != nil {
		return fmt.Errorf("serialize attributes: %w", err)
	}

	if err := a.store.Put(ctx, key, body); err != nil {
		return fmt.Errorf("store object %q: %w", key, err)
	}
	return nil
}
