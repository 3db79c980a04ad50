package receiving

import (
	"context"
	"time"
)

// IdempotencyStore remembers the serialized outcome of a receiving batch
// under a caller-chosen key, so a retried request returns the first result
// instead of importing stock twice.
type IdempotencyStore interface {
	// Get returns the stored payload for key, and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the payload under key for the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
