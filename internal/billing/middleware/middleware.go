// Package middleware gates routes behind subscription entitlement. It runs
// after session auth and stores the resolved subscription in the context.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	authmodels "stash/internal/auth/models"
	billingmodels "stash/internal/billing/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/platform/httputil"
	"stash/pkg/requestcontext"
)

// Gate decides subscription entitlement for an authenticated user.
type Gate interface {
	RequireActive(ctx context.Context, user *authmodels.User) (*billingmodels.Subscription, error)
	RequirePlan(ctx context.Context, user *authmodels.User, plan string) (*billingmodels.Subscription, error)
}

// RequireSubscription rejects users without any active subscription.
func RequireSubscription(gate Gate, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireFunc(gate, logger, func(ctx context.Context, user *authmodels.User) (*billingmodels.Subscription, error) {
		return gate.RequireActive(ctx, user)
	})
}

// RequirePlan rejects users whose active subscription is not on the given
// plan.
func RequirePlan(gate Gate, plan string, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireFunc(gate, logger, func(ctx context.Context, user *authmodels.User) (*billingmodels.Subscription, error) {
		return gate.RequirePlan(ctx, user, plan)
	})
}

func requireFunc(gate Gate, logger *slog.Logger, check func(context.Context, *authmodels.User) (*billingmodels.Subscription, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user := requestcontext.User(ctx)
			if user == nil {
				// Gate mounted without session auth in front of it.
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "not authenticated"))
				return
			}

			sub, err := check(ctx, user)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeForbidden) {
					logger.WarnContext(ctx, "subscription gate rejected request",
						"user_id", user.ID,
						"request_id", requestcontext.RequestID(ctx),
					)
				} else {
					logger.ErrorContext(ctx, "subscription gate failed",
						"error", err,
						"user_id", user.ID,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithSubscription(ctx, sub)))
		})
	}
}
