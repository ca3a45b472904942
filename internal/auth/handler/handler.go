package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stash/internal/auth/models"
	"stash/pkg/platform/httputil"
	"stash/pkg/requestcontext"
)

// Handler serves the current-user endpoint. Session validation happens in the
// auth middleware; by the time this runs the context carries a resolved user.
type Handler struct {
	logger *slog.Logger
}

// New constructs an auth handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users/me", h.HandleMe)
}

// UserResponse is the wire shape of the authenticated user. Field names
// follow the auth provider's camelCase convention.
type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	Image         *string   `json:"image"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromUser converts a domain user to its response shape. Ban and billing
// fields are internal; they never leave the service.
func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// HandleMe handles GET /users/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := requestcontext.User(r.Context())
	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}
