package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/internal/auth/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/requestcontext"
)

const cookieName = "better-auth.session_token"

// validatorFunc adapts a function to the SessionValidator interface.
type validatorFunc func(ctx context.Context, token string) (*models.User, error)

func (f validatorFunc) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	return f(ctx, token)
}

func TestRequireSession_ValidCookie(t *testing.T) {
	var seenUser *models.User
	v := validatorFunc(func(_ context.Context, token string) (*models.User, error) {
		require.Equal(t, "tok-1", token)
		return &models.User{ID: "user-1"}, nil
	})
	mw := RequireSession(v, cookieName, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = requestcontext.User(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "tok-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seenUser)
	assert.Equal(t, "user-1", seenUser.ID)
}

func TestRequireSession_MissingCookie(t *testing.T) {
	v := validatorFunc(func(_ context.Context, token string) (*models.User, error) {
		assert.Empty(t, token)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	})
	mw := RequireSession(v, cookieName, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run unauthenticated")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "not authenticated")
}

func TestRequireSession_ValidatorOutageIsUnavailable(t *testing.T) {
	v := validatorFunc(func(_ context.Context, _ string) (*models.User, error) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "session store unavailable")
	})
	mw := RequireSession(v, cookieName, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on validation outage")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "tok-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code,
		"an outage must not present as bad credentials")
}
