package httputil

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stash/pkg/domain-errors"
	"stash/pkg/testutil"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	testutil.DecodeBody(t, rr, &body)
	assert.Equal(t, "abc", body["id"])
}

func TestWriteError(t *testing.T) {
	t.Run("client errors include the description", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.New(dErrors.CodeUnauthorized, "not authenticated"))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		var body map[string]string
		testutil.DecodeBody(t, rr, &body)
		assert.Equal(t, "unauthorized", body["error"])
		assert.Equal(t, "not authenticated", body["error_description"])
	})

	t.Run("internal errors withhold the description", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.Wrap(errors.New("pq: relation does not exist"),
			dErrors.CodeInternal, "failed to list items"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body map[string]string
		testutil.DecodeBody(t, rr, &body)
		assert.Equal(t, "internal_error", body["error"])
		assert.Empty(t, body["error_description"])
		assert.NotContains(t, rr.Body.String(), "pq:")
	})

	t.Run("unavailable errors withhold the description", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.Wrap(errors.New("dial tcp: connection refused"),
			dErrors.CodeUnavailable, "session store unavailable"))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.NotContains(t, rr.Body.String(), "dial tcp")
	})

	t.Run("non-domain errors map to internal", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "boom")
	})

	t.Run("debug mode attaches the error chain", func(t *testing.T) {
		SetDebug(true)
		t.Cleanup(func() { SetDebug(false) })
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.Wrap(errors.New("boom"), dErrors.CodeInternal, "failed"))

		var body map[string]string
		testutil.DecodeBody(t, rr, &body)
		assert.Contains(t, body["debug"], "boom")
	})
}

func TestWriteValidationError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteValidationError(rr, []FieldError{
		{Field: "name", Message: "name is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body struct {
		Error  string       `json:"error"`
		Fields []FieldError `json:"fields"`
	}
	testutil.DecodeBody(t, rr, &body)
	assert.Equal(t, "validation_error", body.Error)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "name", body.Fields[0].Field)
}

func TestDecodeAndPrepare(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid body decodes", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/items", map[string]string{"name": "notebook"})
		rr := httptest.NewRecorder()

		got, ok := DecodeAndPrepare[payload](rr, req, log, req.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "notebook", got.Name)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[payload](rr, req, log, req.Context(), "req-1")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
