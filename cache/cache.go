package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with expiry. It is an accelerator only: callers must
// treat every error as a miss or a no-op and fall back to the store.
type Cache interface {
	// Get returns the value for key. found is false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
