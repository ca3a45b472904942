// Package auth gates routes behind session validation. Handlers downstream
// receive a resolved user in the context and never see the raw token.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"stash/internal/auth/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/platform/httputil"
	"stash/pkg/requestcontext"
)

// SessionValidator resolves a raw session token to an authenticated user.
type SessionValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// RequireSession validates the session cookie and stores the resolved user in
// the request context. The unauthenticated response is identical for missing,
// invalid, and expired tokens; store outages surface as unavailable instead
// so operators can tell bad credentials from a dependency outage.
func RequireSession(validator SessionValidator, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var token string
			if cookie, err := r.Cookie(cookieName); err == nil {
				token = cookie.Value
			}

			user, err := validator.ValidateToken(ctx, token)
			if err != nil {
				requestID := requestcontext.RequestID(ctx)
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					logger.WarnContext(ctx, "unauthenticated request",
						"request_id", requestID,
					)
				} else {
					logger.ErrorContext(ctx, "session validation failed",
						"error", err,
						"request_id", requestID,
					)
				}
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUser(ctx, user)))
		})
	}
}
