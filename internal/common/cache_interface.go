package common

import "time"

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key. Redis-backed caches return the
	// JSON-decoded form, so callers must accept either shape.
	Get(key string) (interface{}, bool)

	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
