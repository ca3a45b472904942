package testutil

import (
	"net/http"
	"time"

	authmodels "stash/internal/auth/models"
	"stash/pkg/requestcontext"
)

// WithUser adds an authenticated user to the request context, simulating
// what the session middleware does for authenticated requests.
func WithUser(req *http.Request, user *authmodels.User) *http.Request {
	return req.WithContext(requestcontext.WithUser(req.Context(), user))
}

// WithSessionCookie attaches the session token cookie the auth middleware
// reads.
func WithSessionCookie(req *http.Request, cookieName, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

// WithFixedTime pins the request-scoped clock, making expiry checks
// deterministic.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
