package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/internal/auth/models"
	"stash/pkg/testutil"
)

func TestHandleMe(t *testing.T) {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	image := "https://example.com/avatar.png"
	stripeID := "cus_123"
	user := &models.User{
		ID:               "user-1",
		Name:             "Test User",
		Email:            "test@example.com",
		EmailVerified:    true,
		Image:            &image,
		StripeCustomerID: &stripeID,
		CreatedAt:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	req := testutil.WithUser(testutil.NewRequest(t, http.MethodGet, "/users/me"), user)
	rr := testutil.DoRequest(http.HandlerFunc(h.HandleMe), req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	testutil.DecodeBody(t, rr, &body)
	assert.Equal(t, "user-1", body["id"])
	assert.Equal(t, "test@example.com", body["email"])
	assert.Equal(t, true, body["emailVerified"])
	assert.Equal(t, image, body["image"])

	// Billing and moderation fields are internal.
	assert.NotContains(t, body, "stripeCustomerId")
	assert.NotContains(t, body, "banned")
}
