// Package cache defines the key-value provider contract the session store
// runs on, with process-local, Redis, and BadgerDB implementations.
package cache

import (
	"context"
	"time"
)

// Provider is the narrow key-value contract consumed by the session store.
// Implementations must make an individual Get or Set atomic from the
// caller's point of view; no cross-call locking is provided or assumed.
type Provider interface {
	// Get returns the value stored under key. A missing or expired key is
	// reported as (nil, false, nil), never as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set upserts the value under key and resets its time-to-live. The write
	// is observable by any subsequent Get through the same provider.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// ClearAll removes every key the provider manages. Intended for process
	// shutdown only.
	ClearAll(ctx context.Context) error

	// Close releases provider resources. Operations after Close return
	// ErrClosed.
	Close() error

	// Subscribe registers a handler for a connectivity event kind. Only the
	// Redis provider ever fires; local providers accept and ignore handlers.
	Subscribe(kind EventKind, handler Handler)
}
