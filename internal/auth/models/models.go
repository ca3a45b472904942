// Package models holds the identity records this service reads. Users and
// sessions are created by the external auth provider; this service never
// writes them, so the structs carry no persistence behavior.
package models

import "time"

// User is the primary identity. IDs are opaque strings minted by the auth
// provider, not UUIDs.
type User struct {
	ID               string
	Name             string
	Email            string
	EmailVerified    bool
	Image            *string
	Role             *string
	Banned           bool
	BanReason        *string
	BanExpires       *time.Time
	StripeCustomerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Session binds an opaque bearer token to a user with an expiry. The token
// value is unique in the store; a session is valid iff ExpiresAt is in the
// future. Expiry is the only deactivation mechanism this service observes.
type Session struct {
	ID             string
	Token          string
	UserID         string
	ExpiresAt      time.Time
	IPAddress      *string
	UserAgent      *string
	ImpersonatedBy *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Valid reports whether the session is still live at the given instant.
func (s *Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// RemainingTTL returns how long the session has left, truncated to whole
// seconds. Non-positive results mean the session is expired or about to be.
func (s *Session) RemainingTTL(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now).Truncate(time.Second)
}
