// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them; services and handlers read
// them without importing net/http.
//
// Request-scoped time matters here: session expiry and subscription period
// checks inside one request must all observe the same "now", and tests
// inject a fixed clock through WithTime.
package requestcontext

import (
	"context"
	"time"

	authmodels "stash/internal/auth/models"
	billingmodels "stash/internal/billing/models"
)

type (
	userKey         struct{}
	subscriptionKey struct{}
	requestIDKey    struct{}
	requestTimeKey  struct{}
	clientIPKey     struct{}
	userAgentKey    struct{}
)

// WithUser stores the authenticated user resolved by the session middleware.
func WithUser(ctx context.Context, user *authmodels.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// User returns the authenticated user, or nil for unauthenticated requests.
func User(ctx context.Context) *authmodels.User {
	user, _ := ctx.Value(userKey{}).(*authmodels.User)
	return user
}

// WithSubscription stores the subscription resolved by the billing gate.
func WithSubscription(ctx context.Context, sub *billingmodels.Subscription) context.Context {
	return context.WithValue(ctx, subscriptionKey{}, sub)
}

// Subscription returns the gated subscription, or nil when no gate ran.
func Subscription(ctx context.Context) *billingmodels.Subscription {
	sub, _ := ctx.Value(subscriptionKey{}).(*billingmodels.Subscription)
	return sub
}

// WithRequestID stores the request correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request correlation ID, or "" when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithTime pins the request-scoped clock. Tests use this to make expiry
// checks deterministic.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the request-scoped time, falling back to the wall clock when no
// middleware captured one (background jobs, tests without setup).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithClientMetadata injects client IP and User-Agent, mirroring what the
// metadata middleware does for real requests.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// ClientIP returns the client IP captured by the metadata middleware.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// UserAgent returns the raw User-Agent captured by the metadata middleware.
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}
