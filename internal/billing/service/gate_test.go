package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "stash/internal/auth/models"
	"stash/internal/billing/models"
	subscriptionstore "stash/internal/billing/store/subscription"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/requestcontext"
)

var gateNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newGateFixture(t *testing.T) (*Gate, *subscriptionstore.InMemoryStore, context.Context) {
	t.Helper()
	store := subscriptionstore.New()
	gate := NewGate(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := requestcontext.WithTime(context.Background(), gateNow)
	return gate, store, ctx
}

func seedSub(t *testing.T, store *subscriptionstore.InMemoryStore, id, userID, plan, status string, periodEnd *time.Time, createdAt time.Time) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &models.Subscription{
		ID:          id,
		Plan:        plan,
		ReferenceID: userID,
		Status:      status,
		PeriodEnd:   periodEnd,
		CreatedAt:   createdAt,
	}))
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestGate_RequireActive(t *testing.T) {
	user := &authmodels.User{ID: "user-1"}

	t.Run("active subscription passes", func(t *testing.T) {
		gate, store, ctx := newGateFixture(t)
		seedSub(t, store, "sub-1", "user-1", models.PlanPro, models.StatusActive,
			ptrTime(gateNow.Add(30*24*time.Hour)), gateNow.Add(-time.Hour))

		sub, err := gate.RequireActive(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "sub-1", sub.ID)
	})

	t.Run("trialing with open-ended period passes", func(t *testing.T) {
		gate, store, ctx := newGateFixture(t)
		seedSub(t, store, "sub-1", "user-1", models.PlanStarter, models.StatusTrialing,
			nil, gateNow.Add(-time.Hour))

		sub, err := gate.RequireActive(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, models.StatusTrialing, sub.Status)
	})

	t.Run("no subscription is forbidden", func(t *testing.T) {
		gate, _, ctx := newGateFixture(t)

		_, err := gate.RequireActive(ctx, user)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("canceled subscription is forbidden", func(t *testing.T) {
		gate, store, ctx := newGateFixture(t)
		seedSub(t, store, "sub-1", "user-1", models.PlanPro, "canceled",
			nil, gateNow.Add(-time.Hour))

		_, err := gate.RequireActive(ctx, user)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("lapsed period is forbidden", func(t *testing.T) {
		gate, store, ctx := newGateFixture(t)
		seedSub(t, store, "sub-1", "user-1", models.PlanPro, models.StatusActive,
			ptrTime(gateNow.Add(-time.Minute)), gateNow.Add(-time.Hour))

		_, err := gate.RequireActive(ctx, user)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestGate_MostRecentSubscriptionWins(t *testing.T) {
	gate, store, ctx := newGateFixture(t)
	user := &authmodels.User{ID: "user-1"}

	seedSub(t, store, "sub-old", "user-1", models.PlanStarter, models.StatusActive,
		nil, gateNow.Add(-48*time.Hour))
	seedSub(t, store, "sub-new", "user-1", models.PlanPro, models.StatusActive,
		nil, gateNow.Add(-time.Hour))

	sub, err := gate.ActiveSubscriptionFor(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "sub-new", sub.ID)
	assert.Equal(t, models.PlanPro, sub.Plan)
}

func TestGate_RequirePlan(t *testing.T) {
	user := &authmodels.User{ID: "user-1"}

	t.Run("matching plan passes", func(t *testing.T) {
		gate, store, ctx := newGateFixture(t)
		seedSub(t, store, "sub-1", "user-1", models.PlanPro, models.StatusActive,
			nil, gateNow.Add(-time.Hour))

		sub, err := gate.RequirePlan(ctx, user, models.PlanPro)
		require.NoError(t, err)
		assert.Equal(t, models.PlanPro, sub.Plan)
	})

	t.Run("wrong plan is forbidden", func(t *testing.T) {
		gate, store, ctx := newGateFixture(t)
		seedSub(t, store, "sub-1", "user-1", models.PlanStarter, models.StatusActive,
			nil, gateNow.Add(-time.Hour))

		_, err := gate.RequirePlan(ctx, user, models.PlanPro)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Contains(t, dErrors.MessageOf(err), models.PlanPro)
	})

	t.Run("no subscription is forbidden", func(t *testing.T) {
		gate, _, ctx := newGateFixture(t)

		_, err := gate.RequirePlan(ctx, user, models.PlanPro)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestGate_ActiveSubscriptionFor_NoneIsNilNotError(t *testing.T) {
	gate, _, ctx := newGateFixture(t)

	sub, err := gate.ActiveSubscriptionFor(ctx, &authmodels.User{ID: "user-1"})
	require.NoError(t, err)
	assert.Nil(t, sub)
}
