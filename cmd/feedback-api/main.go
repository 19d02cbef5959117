// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the feedback service API: it ingests conferencing server
// webhook events, serves the end-of-session feedback form endpoints, and
// forwards submitted feedback to the downstream collector.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/service"
)

func main() {
	// Local development convenience: a missing .env file is fine.
	_ = godotenv.Load()

	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	shutdownMetrics, err := setupMetrics(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up metrics exporter")
		os.Exit(1)
	}

	serviceMetrics, err := metrics.New()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating metric instruments")
		os.Exit(1)
	}

	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error connecting to redis")
		os.Exit(1)
	}

	repos := setupRepositories(redisClient, env)
	forwarder := setupCollector(env)

	// Initialize services
	serviceConfig := service.ServiceConfig{
		CacheTTL:        env.CacheTTL,
		NoRatingPolicy:  env.NoRatingPolicy,
		RedirectURL:     env.RedirectURL,
		RedirectTimeout: env.RedirectTimeout,
	}
	locales := service.NewLocaleRegistry()
	webhookService := service.NewWebhookService(
		repos.Session,
		repos.User,
		locales,
		serviceConfig,
		serviceMetrics,
	)
	feedbackService := service.NewFeedbackService(
		repos.Session,
		repos.User,
		repos.Feedback,
		repos.Store,
		forwarder,
		locales,
		serviceConfig,
		serviceMetrics,
	)

	// Initialize handlers
	feedbackHandler := handlers.NewFeedbackHandler(webhookService, feedbackService)
	pageHandler := handlers.NewFeedbackPageHandler(
		repos.Session,
		repos.User,
		locales,
		serviceConfig,
		http.StripPrefix("/feedback", http.FileServer(http.Dir(env.PublicDir))),
	)
	healthHandler := handlers.NewHealthHandler(func() bool {
		return repos.Store.IsReady() && feedbackHandler.HandlerReady()
	})

	httpServer := setupHTTPServer(flags, feedbackHandler, pageHandler, healthHandler, &gracefulCloseWG)

	// The service is useless without the webhook subscription, so a
	// registration failure is fatal.
	hookManager := setupHooks(env, serviceMetrics)
	if env.RegisterHooks {
		if _, err := hookManager.Register(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("error registering webhook subscription")
			os.Exit(1)
		}
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	slog.InfoContext(ctx, "shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if env.RegisterHooks {
		// Best-effort: a failed deregistration must not block shutdown.
		_ = hookManager.Deregister(shutdownCtx)
	}

	feedbackService.DrainForwards()

	if err := redisClient.Close(); err != nil {
		slog.With(logging.ErrKey, err).Error("error closing redis connection")
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down metrics exporter")
	}

	cancel()
	slog.Info("graceful shutdown complete")
}
