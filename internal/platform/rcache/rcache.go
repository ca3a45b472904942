// Package rcache caches JSON-serializable operation results in Redis. It is
// the generic replacement for wrapping individual endpoints in ad-hoc
// caching code: give it a key, a TTL, and the operation, and it handles the
// rest with a concrete result type instead of a dynamic-typing escape hatch.
package rcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cached returns the cached value for key if present, otherwise runs fn,
// stores its JSON-encoded result with the TTL, and returns it. Cache failures
// degrade to running fn; an operation result is never lost to a cache outage.
func Cached[T any](ctx context.Context, client *redis.Client, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var zero T

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry, fall through and overwrite it.
	}
	// A miss and a cache failure look the same from here: run the operation.

	result, err := fn()
	if err != nil {
		return zero, err
	}

	if ttl > 0 {
		if encoded, err := json.Marshal(result); err == nil {
			// Best effort; the computed result is returned regardless.
			_ = client.Set(ctx, key, encoded, ttl).Err()
		}
	}
	return result, nil
}
