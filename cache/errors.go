package cache

import "errors"

// Sentinel errors for provider operations.
var (
	ErrClosed         = errors.New("cache provider is closed")
	ErrUnknownBackend = errors.New("unknown cache backend")
)
