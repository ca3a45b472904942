// Package cache maps hashed session tokens to user IDs in Redis so the common
// request path costs one key-value lookup instead of two relational ones.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stash/pkg/platform/sentinel"
)

const (
	// Redis key namespace for session token mappings.
	sessionKeyPrefix = "session:"
	// hashKeyLen bounds key length. Truncating the SHA-256 hex digest keeps
	// keys compact; a false hit would still have to resolve to a real user
	// downstream, so the residual collision risk is acceptable.
	hashKeyLen = 16
)

// SessionCache is a Redis-backed token-to-user-id cache. Raw tokens are never
// stored: keys are derived from a truncated one-way hash so a dump of the
// cache does not yield bearer credentials.
type SessionCache struct {
	client *redis.Client
}

// New constructs a session cache over the shared Redis client. The client
// lifecycle is managed by the caller.
func New(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// GetUserID returns the cached user id for the token, or "" on a miss.
// Infrastructure failures are returned to the caller, which decides whether
// to degrade to a store lookup or fail the request.
func (c *SessionCache) GetUserID(ctx context.Context, token string) (string, error) {
	userID, err := c.client.Get(ctx, c.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session cache get: %v: %w", err, sentinel.ErrUnavailable)
	}
	return userID, nil
}

// SetUserID stores the mapping with the given TTL. The TTL must never exceed
// the session's remaining lifetime; a non-positive TTL is a no-op because
// caching something already expired would serve stale auth.
func (c *SessionCache) SetUserID(ctx context.Context, token, userID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("session cache set: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

// Delete removes the mapping. Used to self-heal entries whose user id no
// longer resolves to a real user.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, c.key(token)).Err(); err != nil {
		return fmt.Errorf("session cache delete: %v: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

func (c *SessionCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])[:hashKeyLen]
}
