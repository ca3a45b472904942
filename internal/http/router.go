// Package httpapi assembles the HTTP surface: middleware chain, public
// endpoints, and the session/subscription-gated API routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "stash/internal/auth/handler"
	billingmw "stash/internal/billing/middleware"
	healthhandler "stash/internal/health"
	itemshandler "stash/internal/items/handler"
	authmw "stash/pkg/platform/middleware/auth"
	"stash/pkg/platform/middleware/cors"
	"stash/pkg/platform/middleware/httpmetrics"
	"stash/pkg/platform/middleware/logging"
	"stash/pkg/platform/middleware/metadata"
	"stash/pkg/platform/middleware/ratelimit"
	"stash/pkg/platform/middleware/requestid"
	"stash/pkg/platform/middleware/requesttime"
	"stash/pkg/platform/middleware/secheaders"
	"stash/pkg/platform/middleware/sizelimit"
)

// Config carries the router's HTTP-level settings, decoupled from the
// process config so tests can construct routers directly.
type Config struct {
	Production        bool
	FrontendURL       string
	SessionCookieName string
	MaxRequestSize    int64
	RequestTimeout    time.Duration
}

// Deps bundles everything the router mounts. All dependencies are
// constructed in main and passed by handle; nothing here reaches into
// ambient state.
type Deps struct {
	Logger      *slog.Logger
	Config      Config
	Validator   authmw.SessionValidator
	Gate        billingmw.Gate
	Auth        *authhandler.Handler
	Items       *itemshandler.Handler
	Health      *healthhandler.Handler
	RateLimiter *ratelimit.Limiter
	HTTPMetrics *httpmetrics.Metrics
}

// New wires the full router. Order matters: request ID and time first so
// every later stage can use them, logging before security rejections so
// rejected requests still get logged.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.Middleware)
	r.Use(logging.Middleware(d.Logger))
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}
	r.Use(secheaders.Middleware(secheaders.Config{
		Production:  d.Config.Production,
		FrontendURL: d.Config.FrontendURL,
	}))
	r.Use(cors.Middleware(d.Config.FrontendURL))
	r.Use(sizelimit.Middleware(d.Config.MaxRequestSize))
	if d.Config.RequestTimeout > 0 {
		r.Use(timeout(d.Config.RequestTimeout))
	}

	r.Get("/health", d.Health.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		if d.RateLimiter != nil {
			api.Use(d.RateLimiter.Middleware)
		}
		api.Group(func(protected chi.Router) {
			protected.Use(authmw.RequireSession(d.Validator, d.Config.SessionCookieName, d.Logger))
			d.Auth.Register(protected)

			protected.Group(func(gated chi.Router) {
				gated.Use(billingmw.RequireSubscription(d.Gate, d.Logger))
				d.Items.Register(gated)
			})
		})
	})

	return r
}

// timeout bounds each request so a hung store call cannot pin a connection
// forever. Store calls inherit the deadline through the request context.
func timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
