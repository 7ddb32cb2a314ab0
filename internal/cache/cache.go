package cache

import (
	"context"
	"time"
)

// Cache is the key/value cache used for slug resolution and metrics.
// A nil Cache means caching is disabled; callers check before use.
type Cache interface {
	// Set stores a key-value pair with expiration
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key; a missing key returns "" and no error
	Get(ctx context.Context, key string) (string, error)

	// Delete removes keys from cache
	Delete(ctx context.Context, keys ...string) error

	// Close closes the cache connection
	Close() error
}
