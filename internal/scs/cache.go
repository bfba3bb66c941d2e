package scs

import "context"

// Cache is the local key-value store that survives restarts.
// Values are the JSON-serialized collections, keyed by a fixed name per collection.
type Cache interface {
	// Get returns the stored value for key. ok is false if the key was never written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any underlying connection.
	Close() error
}
