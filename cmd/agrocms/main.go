// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"agrocms/internal/bilingual"
	"agrocms/internal/cache"
	"agrocms/internal/config"
	"agrocms/internal/handler"
	"agrocms/internal/logging"
	"agrocms/internal/middleware"
	"agrocms/internal/scheduler"
	"agrocms/internal/service"
	"agrocms/internal/session"
	"agrocms/internal/store"
	"agrocms/internal/translate"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Once the events table exists, mirror warnings into it
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, db)))

	cacheManager, err := cache.NewManager(cache.Config{
		Type:            cacheType(cfg),
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		CleanupInterval: time.Minute,
	}, db)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer func() { _ = cacheManager.Close() }()

	provider := buildProvider(cfg)
	resolver := bilingual.NewResolver(translate.NewTranslator(provider))

	events := service.NewEventService(db)
	crops := service.NewCropService(db, resolver, cacheManager, events)
	posts := service.NewPostService(db, resolver, events)

	sched := scheduler.New(crops, slog.Default())
	if cfg.TranslationEnabled() {
		if err := sched.Start(cfg.RetranslateCron); err != nil {
			slog.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	sessions := session.New(db, cfg.IsDevelopment())

	csrfKey := make([]byte, 32)
	if _, err := rand.Read(csrfKey); err != nil {
		slog.Error("failed to generate CSRF key", "error", err)
		os.Exit(1)
	}

	router := handler.Routes(handler.Deps{
		Crops:      handler.NewCropsHandler(crops, sessions),
		Posts:      handler.NewPostsHandler(posts),
		Catalog:    handler.NewCatalogHandler(cacheManager.Crops, db),
		Media:      handler.NewMediaHandler(cfg.UploadsDir),
		UploadsDir: cfg.UploadsDir,
		AdminMiddleware: []func(http.Handler) http.Handler{
			sessions.LoadAndSave,
			middleware.CSRF(middleware.DefaultCSRFConfig(csrfKey, cfg.IsDevelopment())),
		},
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func cacheType(cfg *config.Config) string {
	if cfg.UseRedisCache() {
		return "redis"
	}
	return "memory"
}

// buildProvider selects the translation backend. With translation off a
// failing provider is used: the resolver then leaves pairs one-sided, which
// is exactly the degraded behavior saves expect.
func buildProvider(cfg *config.Config) translate.Provider {
	switch cfg.TranslateProvider {
	case "openai":
		return translate.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "mymemory":
		return translate.NewMyMemoryProvider()
	default:
		return &translate.MockProvider{Fail: true}
	}
}
