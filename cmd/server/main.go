// Command server wires high-level dependencies and keeps the server
// lifecycle small. Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	authcache "stash/internal/auth/cache"
	authhandler "stash/internal/auth/handler"
	authmetrics "stash/internal/auth/metrics"
	authservice "stash/internal/auth/service"
	sessionstore "stash/internal/auth/store/session"
	userstore "stash/internal/auth/store/user"
	billingservice "stash/internal/billing/service"
	subscriptionstore "stash/internal/billing/store/subscription"
	healthhandler "stash/internal/health"
	httpapi "stash/internal/http"
	itemshandler "stash/internal/items/handler"
	itemsservice "stash/internal/items/service"
	itemstore "stash/internal/items/store/item"
	"stash/internal/platform/config"
	"stash/internal/platform/httpserver"
	"stash/internal/platform/logger"
	platformredis "stash/internal/platform/redis"
	"stash/pkg/platform/httputil"
	"stash/pkg/platform/middleware/httpmetrics"
	"stash/pkg/platform/middleware/ratelimit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Debug)
	httputil.SetDebug(cfg.Debug)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		fatal(log, "open database", err)
	}
	defer db.Close()
	if err := db.PingContext(context.Background()); err != nil {
		fatal(log, "ping database", err)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		fatal(log, "connect redis", err)
	}
	defer redisClient.Close()

	sessions := sessionstore.NewPostgres(db)
	users := userstore.NewPostgres(db)
	subscriptions := subscriptionstore.NewPostgres(db)
	items := itemstore.NewPostgres(db)

	validator := authservice.NewValidator(
		sessions, users,
		authcache.New(redisClient.Client),
		log,
		authservice.WithMetrics(authmetrics.New()),
	)
	gate := billingservice.NewGate(subscriptions, log)

	limiter := ratelimit.New(redisClient.Client, cfg.RateLimitRequests, cfg.RateLimitWindow, log)

	router := httpapi.New(httpapi.Deps{
		Logger: log,
		Config: httpapi.Config{
			Production:        cfg.Production(),
			FrontendURL:       cfg.FrontendURL,
			SessionCookieName: cfg.SessionCookieName,
			MaxRequestSize:    cfg.MaxRequestSize,
			RequestTimeout:    cfg.RequestTimeout,
		},
		Validator:   validator,
		Gate:        gate,
		Auth:        authhandler.New(log),
		Items:       itemshandler.New(itemsservice.New(items, log), log),
		Health:      healthhandler.New(db, redisClient.Client, log),
		RateLimiter: limiter,
		HTTPMetrics: httpmetrics.New(),
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting stash api", "addr", cfg.Addr, "env", cfg.AppEnv)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
	log.Info("server stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
