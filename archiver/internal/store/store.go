// Package store provides the object-store boundary the archiver writes to:
// a key-addressed durable blob store with overwrite-on-write semantics.
package store

import "context"

// ObjectStore writes archive objects by key. Writing an existing key
// overwrites the previous object; there is no read-back guarantee.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte) error
}
