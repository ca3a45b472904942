// Package ratelimit enforces a per-client fixed-window request limit backed
// by Redis, shared across instances.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stash/pkg/platform/httputil"
	"stash/pkg/requestcontext"
)

const keyPrefix = "ratelimit:"

// Limiter counts requests per client IP in fixed windows.
type Limiter struct {
	client   *redis.Client
	logger   *slog.Logger
	requests int
	window   time.Duration
	disabled bool
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(l *Limiter) {
		l.disabled = disabled
	}
}

// New constructs a limiter allowing `requests` per `window` per client.
func New(client *redis.Client, requests int, window time.Duration, logger *slog.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		client:   client,
		logger:   logger,
		requests: requests,
		window:   window,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Allow increments the client's window counter and reports whether the
// request is within budget, along with the remaining budget and window reset.
func (l *Limiter) Allow(ctx context.Context, clientIP string) (allowed bool, remaining int, reset time.Duration, err error) {
	key := keyPrefix + clientIP

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX keeps the window anchored at the first request rather than sliding
	// on every increment.
	pipe.ExpireNX(ctx, key, l.window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("rate limit check: %w", err)
	}

	count := int(incr.Val())
	remaining = l.requests - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.requests, remaining, ttl.Val(), nil
}

// Middleware applies the limit per client IP. Redis failures fail open: rate
// limiting is protection, not a dependency the whole API should die with.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)

		allowed, remaining, reset, err := l.Allow(ctx, ip)
		if err != nil {
			l.logger.ErrorContext(ctx, "rate limit check failed, allowing request",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(l.requests))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retryAfter := int(reset.Round(time.Second).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "too many requests, slow down",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
