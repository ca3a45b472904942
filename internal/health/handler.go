// Package health reports dependency liveness for load balancers and
// monitoring.
package health

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"stash/internal/platform/rcache"
	dErrors "stash/pkg/domain-errors"
	"stash/pkg/platform/httputil"
	"stash/pkg/requestcontext"
)

const cacheTTL = time.Minute

// Status is the health check response body.
type Status struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Redis     string    `json:"redis"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler pings the database and Redis. Results are cached briefly so health
// probes do not become load on the dependencies they watch.
type Handler struct {
	db     *sql.DB
	redis  *redis.Client
	logger *slog.Logger
}

// New constructs a health handler.
func New(db *sql.DB, redisClient *redis.Client, logger *slog.Logger) *Handler {
	return &Handler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := rcache.Cached(ctx, h.redis, "health", cacheTTL, func() (Status, error) {
		if err := h.db.PingContext(ctx); err != nil {
			return Status{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "database unreachable")
		}
		if err := h.redis.Ping(ctx).Err(); err != nil {
			return Status{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "redis unreachable")
		}
		return Status{
			Status:    "healthy",
			Database:  "connected",
			Redis:     "connected",
			Timestamp: requestcontext.Now(ctx).UTC(),
		}, nil
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "health check failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}
