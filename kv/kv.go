package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent, either because it
// was never set, was deleted, or its TTL lapsed.
var ErrNotFound = errors.New("kv: key not found")

// ErrUnavailable wraps infrastructure failures talking to the store
// (network, timeout). Callers must treat it differently from ErrNotFound:
// an absent key is a revocation signal, an unreachable store is not.
var ErrUnavailable = errors.New("kv: store unavailable")

// KeyValueStore represents an interface for a key-value storage system with
// per-key TTL. Each operation is atomic at single-key granularity.
type KeyValueStore interface {
	// Set stores a key-value pair that expires after ttl. An existing key
	// is silently overwritten.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get retrieves the value associated with the given key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Del removes the key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
	// Exists reports whether the key is currently present.
	Exists(ctx context.Context, key string) (bool, error)
}
