package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stash/internal/billing/models"
)

// PostgresStore reads subscription rows produced by billing webhook
// processing. Read-only from this service's point of view.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed subscription store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindActiveByReference returns all currently-active subscription rows for
// the reference (user) id, most recently created first. Multiple rows can
// exist transiently during plan changes; ordering makes the caller's pick
// deterministic.
func (s *PostgresStore) FindActiveByReference(ctx context.Context, referenceID string, now time.Time) ([]*models.Subscription, error) {
	query := `
		SELECT id, plan, reference_id, stripe_customer_id, stripe_subscription_id, status,
		       period_start, period_end, cancel_at_period_end, seats, trial_start, trial_end,
		       created_at, updated_at
		FROM subscription
		WHERE reference_id = $1
		  AND status IN ('active', 'trialing')
		  AND (period_end IS NULL OR period_end > $2)
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, referenceID, now)
	if err != nil {
		return nil, fmt.Errorf("find active subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var (
			sub                  models.Subscription
			stripeCustomerID     sql.NullString
			stripeSubscriptionID sql.NullString
			periodStart          sql.NullTime
			periodEnd            sql.NullTime
			seats                sql.NullInt64
			trialStart           sql.NullTime
			trialEnd             sql.NullTime
		)
		if err := rows.Scan(
			&sub.ID, &sub.Plan, &sub.ReferenceID, &stripeCustomerID, &stripeSubscriptionID, &sub.Status,
			&periodStart, &periodEnd, &sub.CancelAtPeriodEnd, &seats, &trialStart, &trialEnd,
			&sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription row: %w", err)
		}
		if stripeCustomerID.Valid {
			sub.StripeCustomerID = &stripeCustomerID.String
		}
		if stripeSubscriptionID.Valid {
			sub.StripeSubscriptionID = &stripeSubscriptionID.String
		}
		if periodStart.Valid {
			sub.PeriodStart = &periodStart.Time
		}
		if periodEnd.Valid {
			sub.PeriodEnd = &periodEnd.Time
		}
		if seats.Valid {
			n := int(seats.Int64)
			sub.Seats = &n
		}
		if trialStart.Valid {
			sub.TrialStart = &trialStart.Time
		}
		if trialEnd.Valid {
			sub.TrialEnd = &trialEnd.Time
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription rows: %w", err)
	}
	return subs, nil
}
