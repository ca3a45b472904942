// Package httputil centralizes JSON encoding and domain error translation for
// handlers so every endpoint emits the same envelope.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "stash/pkg/domain-errors"
)

// debugMode controls whether internal error detail is attached to responses.
// Set once at startup from config; defaults to withholding detail.
var debugMode = false

// SetDebug enables debug error descriptions. Call once during wiring.
func SetDebug(debug bool) {
	debugMode = debug
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Debug            string `json:"debug,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures are silent by
// design; the status line has already been written.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP JSON response. Internal
// and unavailable errors omit the description so store internals never reach
// clients; the debug flag attaches the full error chain for development.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	switch code {
	case dErrors.CodeInternal, dErrors.CodeUnavailable, dErrors.CodeTimeout:
		// withhold message
	default:
		body.ErrorDescription = dErrors.MessageOf(err)
	}
	if debugMode {
		body.Debug = err.Error()
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationBody struct {
	Error            string       `json:"error"`
	ErrorDescription string       `json:"error_description"`
	Fields           []FieldError `json:"fields"`
}

// WriteValidationError emits a 422 with field-level messages.
func WriteValidationError(w http.ResponseWriter, fields []FieldError) {
	WriteJSON(w, http.StatusUnprocessableEntity, validationBody{
		Error:            string(dErrors.CodeValidation),
		ErrorDescription: "validation error",
		Fields:           fields,
	})
}

// DecodeAndPrepare decodes a JSON request body into T, writing a bad request
// response and returning ok=false on malformed input.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			logger.WarnContext(ctx, "malformed request body",
				"error", err,
				"request_id", requestID,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON body"))
		var zero T
		return zero, false
	}
	return req, true
}
