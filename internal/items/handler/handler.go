package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stash/internal/items/models"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/platform/httputil"
	"stash/pkg/requestcontext"
)

// Service defines the item operations the handler needs.
type Service interface {
	List(ctx context.Context, ownerID string, skip, limit int) ([]*models.Item, error)
	Create(ctx context.Context, ownerID, name string, description *string) (*models.Item, error)
	Get(ctx context.Context, id, ownerID string) (*models.Item, error)
	Update(ctx context.Context, id, ownerID string, upd models.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Handler wires item endpoints to the item service. Routes are mounted behind
// session auth and the subscription gate, so the context always carries a
// user by the time these run.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an item handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts item endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/items", h.HandleList)
	r.Post("/items", h.HandleCreate)
	r.Get("/items/{itemID}", h.HandleGet)
	r.Patch("/items/{itemID}", h.HandleUpdate)
	r.Delete("/items/{itemID}", h.HandleDelete)
}

// HandleList handles GET /items?skip=&limit=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := requestcontext.User(ctx)

	skip, err := queryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		httputil.WriteValidationError(w, []httputil.FieldError{{Field: "skip", Message: "skip must be a non-negative integer"}})
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil || limit < 0 || limit > maxListSize {
		httputil.WriteValidationError(w, []httputil.FieldError{{Field: "limit", Message: "limit must be between 0 and 1000"}})
		return
	}

	items, err := h.service.List(ctx, user.ID, skip, limit)
	if err != nil {
		h.logError(ctx, "list items failed", err, user.ID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromItems(items))
}

// HandleCreate handles POST /items.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := requestcontext.User(ctx)
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateItemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		httputil.WriteValidationError(w, fields)
		return
	}

	it, err := h.service.Create(ctx, user.ID, req.Name, req.Description)
	if err != nil {
		h.logError(ctx, "create item failed", err, user.ID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "item created",
		"item_id", it.ID,
		"user_id", user.ID,
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromItem(it))
}

// HandleGet handles GET /items/{itemID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := requestcontext.User(ctx)

	it, err := h.service.Get(ctx, chi.URLParam(r, "itemID"), user.ID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logError(ctx, "get item failed", err, user.ID)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromItem(it))
}

// HandleUpdate handles PATCH /items/{itemID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := requestcontext.User(ctx)
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UpdateItemRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		httputil.WriteValidationError(w, fields)
		return
	}

	it, err := h.service.Update(ctx, chi.URLParam(r, "itemID"), user.ID, req.Update())
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logError(ctx, "update item failed", err, user.ID)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromItem(it))
}

// HandleDelete handles DELETE /items/{itemID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := requestcontext.User(ctx)

	if err := h.service.Delete(ctx, chi.URLParam(r, "itemID"), user.ID); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logError(ctx, "delete item failed", err, user.ID)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logError(ctx context.Context, msg string, err error, userID string) {
	h.logger.ErrorContext(ctx, msg,
		"error", err,
		"user_id", userID,
		"request_id", requestcontext.RequestID(ctx),
	)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
