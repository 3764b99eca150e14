package shared

import (
	"context"
	"time"
)

// IdempotencyStore records keys of side effects that must happen at most once,
// such as generating the contract when an order becomes fully paid
type IdempotencyStore interface {
	// MarkProcessed claims a key with a TTL
	// Returns true if the key was newly claimed, false if it was already held
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently held
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so the side effect may be attempted again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key is held
	// Default: 30 days
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL: 30 * 24 * time.Hour,
	}
}
