package service

import (
	"context"
	"log/slog"
	"time"

	authmodels "stash/internal/auth/models"
	"stash/internal/billing/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/requestcontext"
)

// SubscriptionStore returns currently-active subscription rows for a
// reference id, most recently created first.
type SubscriptionStore interface {
	FindActiveByReference(ctx context.Context, referenceID string, now time.Time) ([]*models.Subscription, error)
}

// Gate makes plan-tier entitlement decisions for authenticated users. It is a
// pure authorization predicate: no mutation, no caching layer of its own.
// Subscription checks run far less often than auth checks; callers that need
// caching wrap the gate themselves.
type Gate struct {
	subscriptions SubscriptionStore
	logger        *slog.Logger
}

// NewGate constructs a subscription gate.
func NewGate(subscriptions SubscriptionStore, logger *slog.Logger) *Gate {
	return &Gate{
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// ActiveSubscriptionFor returns the user's current subscription, or nil when
// none is active. When plan changes race and several rows are active at once,
// the most recently created row wins. That tie-break is a policy choice, not
// a guarantee that only one row exists.
func (g *Gate) ActiveSubscriptionFor(ctx context.Context, user *authmodels.User) (*models.Subscription, error) {
	now := requestcontext.Now(ctx)
	subs, err := g.subscriptions.FindActiveByReference(ctx, user.ID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "subscription store unavailable")
	}
	if len(subs) == 0 {
		return nil, nil
	}
	if len(subs) > 1 {
		g.logger.WarnContext(ctx, "multiple active subscriptions, using most recent",
			"user_id", user.ID,
			"count", len(subs),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return subs[0], nil
}

// RequireActive fails with forbidden when the user holds no active
// subscription.
func (g *Gate) RequireActive(ctx context.Context, user *authmodels.User) (*models.Subscription, error) {
	sub, err := g.ActiveSubscriptionFor(ctx, user)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, dErrors.New(dErrors.CodeForbidden, "active subscription required to access this resource")
	}
	return sub, nil
}

// RequirePlan fails with forbidden unless the user's active subscription is
// on exactly the given plan. The message names the plan; unlike auth
// failures, that leaks nothing useful for account enumeration.
func (g *Gate) RequirePlan(ctx context.Context, user *authmodels.User, plan string) (*models.Subscription, error) {
	sub, err := g.RequireActive(ctx, user)
	if err != nil {
		return nil, err
	}
	if sub.Plan != plan {
		return nil, dErrors.New(dErrors.CodeForbidden, plan+" subscription required to access this resource")
	}
	return sub, nil
}
