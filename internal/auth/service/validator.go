package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"stash/internal/auth/metrics"
	"stash/internal/auth/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/platform/sentinel"
	"stash/pkg/requestcontext"
)

// SessionStore is the durable source of truth for issued sessions.
type SessionStore interface {
	FindByToken(ctx context.Context, token string, now time.Time) (*models.Session, error)
}

// UserStore resolves user ids to user records.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// TokenCache is the write-through cache in front of the session store.
type TokenCache interface {
	GetUserID(ctx context.Context, token string) (string, error)
	SetUserID(ctx context.Context, token, userID string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// errNotAuthenticated is the single unauthenticated outcome. Missing, invalid,
// expired, and orphaned tokens all collapse into it so a caller probing the
// API cannot distinguish which applied.
var errNotAuthenticated = dErrors.New(dErrors.CodeUnauthorized, "not authenticated")

// Validator resolves raw session tokens to authenticated users, cache-first.
// Cache entries are always derived from the store, never the reverse; the
// store remains the sole source of truth.
type Validator struct {
	sessions SessionStore
	users    UserStore
	cache    TokenCache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	group    singleflight.Group
}

// Option configures a Validator.
type Option func(*Validator)

// WithMetrics attaches auth metrics to the validator.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

// NewValidator constructs a session validator with its dependencies.
func NewValidator(sessions SessionStore, users UserStore, cache TokenCache, logger *slog.Logger, opts ...Option) *Validator {
	v := &Validator{
		sessions: sessions,
		users:    users,
		cache:    cache,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// ValidateToken resolves a raw bearer token to its owning user.
//
// The cache-hit path deliberately skips the session-row expiry re-check: a
// session revoked early can still be served until the cache entry's TTL runs
// out, which is bounded by the session's remaining lifetime at caching time.
//
// Cache failures degrade to store lookups so the cache stays an optimization
// rather than a liability. Store failures surface as unavailable, never as
// unauthenticated: a dependency outage must not read as bad credentials.
func (v *Validator) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errNotAuthenticated
	}
	if v.metrics != nil {
		defer v.metrics.ObserveValidate(time.Now())
	}

	if user, ok := v.fromCache(ctx, token); ok {
		return user, nil
	}

	return v.fromStore(ctx, token)
}

// fromCache attempts the cache-hit path. It returns ok=false when the caller
// should fall through to the session store.
func (v *Validator) fromCache(ctx context.Context, token string) (*models.User, bool) {
	userID, err := v.cache.GetUserID(ctx, token)
	if err != nil {
		v.logger.WarnContext(ctx, "token cache unavailable, degrading to store lookup",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if v.metrics != nil {
			v.metrics.CacheErrors.Inc()
		}
		return nil, false
	}
	if userID == "" {
		if v.metrics != nil {
			v.metrics.CacheMisses.Inc()
		}
		return nil, false
	}

	user, err := v.users.FindByID(ctx, userID)
	if err == nil {
		if v.metrics != nil {
			v.metrics.CacheHits.Inc()
		}
		return user, true
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		// The cached id points at a deleted user. Self-heal and let the
		// store fallback re-derive the outcome.
		if delErr := v.cache.Delete(ctx, token); delErr != nil {
			v.logger.WarnContext(ctx, "failed to invalidate stale cache entry",
				"error", delErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, false
	}
	// A user-store failure on the hit path is not recoverable by falling
	// back: the same store serves the fallback. Let fromStore report it.
	return nil, false
}

// fromStore runs the full session-join-user lookup and repopulates the cache.
// Concurrent validations of the same token share one store round trip.
func (v *Validator) fromStore(ctx context.Context, token string) (*models.User, error) {
	result, err, _ := v.group.Do(token, func() (any, error) {
		return v.lookup(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (v *Validator) lookup(ctx context.Context, token string) (*models.User, error) {
	now := requestcontext.Now(ctx)

	sess, err := v.sessions.FindByToken(ctx, token, now)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, errNotAuthenticated
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "session store unavailable")
	}

	user, err := v.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Orphaned session. A data integrity issue, not a client error
		// distinction: same outcome as an invalid token.
		return nil, errNotAuthenticated
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "user store unavailable")
	}

	if ttl := sess.RemainingTTL(now); ttl > 0 {
		if err := v.cache.SetUserID(ctx, token, user.ID, ttl); err != nil {
			v.logger.WarnContext(ctx, "token cache write-through failed",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return user, nil
}
