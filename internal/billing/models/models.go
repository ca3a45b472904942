// Package models holds subscription records produced by billing webhook
// processing. This service only reads them to make entitlement decisions.
package models

import "time"

// Subscription status values that count as currently entitled. Every other
// status (canceled, incomplete, past_due, unpaid, ...) is treated as inactive.
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
)

// Known plan tiers.
const (
	PlanStarter = "starter"
	PlanPro     = "pro"
)

// Subscription mirrors the billing provider's subscription row. ReferenceID
// equals the user ID for per-user plans.
type Subscription struct {
	ID                   string
	Plan                 string
	ReferenceID          string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	Status               string
	PeriodStart          *time.Time
	PeriodEnd            *time.Time
	CancelAtPeriodEnd    bool
	Seats                *int
	TrialStart           *time.Time
	TrialEnd             *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Active reports whether the subscription currently entitles its holder:
// status is active or trialing, and the period either has no end or ends
// after now. A nil PeriodEnd means an open-ended period, not a missing one.
func (s *Subscription) Active(now time.Time) bool {
	if s.Status != StatusActive && s.Status != StatusTrialing {
		return false
	}
	if s.PeriodEnd != nil && !s.PeriodEnd.After(now) {
		return false
	}
	return true
}
