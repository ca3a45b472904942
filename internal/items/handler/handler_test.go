package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "stash/internal/auth/models"
	"stash/internal/items/service"
	itemstore "stash/internal/items/store/item"
	"stash/pkg/requestcontext"
	"stash/pkg/testutil"
)

// newRouter mounts the handler behind a middleware that injects the given
// user, standing in for the session middleware.
func newRouter(t *testing.T, user *authmodels.User) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(service.New(itemstore.New(), log), log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithUser(req.Context(), user)))
		})
	})
	h.Register(r)
	return r
}

func TestHandleCreate(t *testing.T) {
	user := &authmodels.User{ID: "user-1"}
	router := newRouter(t, user)

	t.Run("valid payload creates", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/items",
			map[string]any{"name": "notebook", "description": "ruled"})
		rr := testutil.DoRequest(router, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var body ItemResponse
		testutil.DecodeBody(t, rr, &body)
		assert.NotEmpty(t, body.ID)
		assert.Equal(t, "notebook", body.Name)
		assert.Equal(t, "user-1", body.OwnerID)
		assert.True(t, body.IsActive)
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/items", map[string]any{})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "name is required")
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestHandleList(t *testing.T) {
	user := &authmodels.User{ID: "user-1"}
	router := newRouter(t, user)

	t.Run("empty list is an empty array", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("lists created items", func(t *testing.T) {
		for _, name := range []string{"first", "second"} {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/items", map[string]any{"name": name})
			require.Equal(t, http.StatusCreated, testutil.DoRequest(router, req).Code)
		}

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items"))
		require.Equal(t, http.StatusOK, rr.Code)

		var body []ItemResponse
		testutil.DecodeBody(t, rr, &body)
		assert.Len(t, body, 2)
	})

	t.Run("rejects bad pagination", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items?skip=-1"))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items?limit=5000"))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items?limit=abc"))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestHandleGetUpdateDelete(t *testing.T) {
	user := &authmodels.User{ID: "user-1"}
	router := newRouter(t, user)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/items", map[string]any{"name": "notebook"})
	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created ItemResponse
	testutil.DecodeBody(t, rr, &created)

	t.Run("get", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items/"+created.ID))
		require.Equal(t, http.StatusOK, rr.Code)

		var body ItemResponse
		testutil.DecodeBody(t, rr, &body)
		assert.Equal(t, created.ID, body.ID)
	})

	t.Run("get missing is 404", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items/no-such-id"))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("patch renames", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPatch, "/items/"+created.ID,
			map[string]any{"name": "journal"})
		rr := testutil.DoRequest(router, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var body ItemResponse
		testutil.DecodeBody(t, rr, &body)
		assert.Equal(t, "journal", body.Name)
	})

	t.Run("patch with empty name is a validation error", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPatch, "/items/"+created.ID,
			map[string]any{"name": ""})
		rr := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/items/"+created.ID))
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/items/"+created.ID))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
