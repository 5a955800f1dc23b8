// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the OurShop API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ourshop/internal/ads"
	"ourshop/internal/ai"
	"ourshop/internal/cache"
	"ourshop/internal/campaign"
	"ourshop/internal/catalog"
	"ourshop/internal/chat"
	"ourshop/internal/config"
	"ourshop/internal/database"
	"ourshop/internal/handlers"
	"ourshop/internal/identity"
	"ourshop/internal/inbox"
	"ourshop/internal/mail"
	"ourshop/internal/middleware"
	"ourshop/internal/router"
	"ourshop/internal/session"
	"ourshop/internal/storage"
	"ourshop/internal/store"
)

// Public endpoint limits per client IP.
const (
	contactLimit = 5
	chatLimit    = 20
	limitWindow  = time.Minute
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"mail_configured", cfg.MailConfigured(),
	)

	ctx := context.Background()

	// One pool for the whole process, created on first use.
	db := database.New(cfg.DSN(), cfg.DBMaxConns)
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := database.Seed(ctx, db, time.Now()); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}
	if cfg.IsDev() {
		if err := database.SeedAdmin(ctx, db); err != nil {
			slog.Error("failed to seed admin", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())
	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)
	guard := cache.NewSubmissionGuard(valkeyClient, cache.DefaultDuplicateWindow)

	messageStore := store.NewMessageStore(db)
	projectStore := store.NewProjectStore(db)
	adStore := store.NewAdStore(db)
	serviceStore := store.NewServiceStore(db)
	settingsStore := store.NewSettingsStore(db)
	consentStore := store.NewConsentStore(db)
	userStore := store.NewUserStore(db)

	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient == nil {
		slog.Warn("s3 storage not configured, project image uploads disabled")
	} else {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}

	mailer := mail.New(cfg.ResendKey, cfg.MailFrom, cfg.ProviderTimeout)
	if !mailer.Configured() {
		slog.Warn("RESEND_API_KEY not set, contact notifications fall back to mailto links")
	}

	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	identitySvc := identity.New(userStore, consentStore, "OurShop")
	projects := catalog.NewProjects(projectStore, listCache)
	var uploader handlers.ImageUploader
	if storageClient != nil {
		projects.WithImages(storageClient)
		uploader = storageClient
	}

	h := router.Handlers{
		Auth:      handlers.NewAuth(identitySvc, sessionStore),
		Contact:   handlers.NewContact(inbox.New(messageStore, mailer, cfg.RecipientEmail).WithGuard(guard)),
		Projects:  handlers.NewProjects(projects, uploader),
		Ads:       handlers.NewAds(ads.New(adStore, nil)),
		Services:  handlers.NewServices(catalog.NewServices(serviceStore, listCache)),
		Settings:  handlers.NewSettings(catalog.NewSettings(settingsStore)),
		Users:     handlers.NewUsers(identitySvc),
		Marketing: handlers.NewMarketing(campaign.New(consentStore, mailer)),
		Chat:      handlers.NewChat(chat.New(aiRegistry, chat.DefaultProfile(cfg.RecipientEmail), cfg.ProviderTimeout)),
		Stats:     handlers.NewStats(messageStore, consentStore, adStore),
	}

	contactLimiter := middleware.NewRateLimiter(contactLimit, limitWindow)
	defer contactLimiter.Stop()
	chatLimiter := middleware.NewRateLimiter(chatLimit, limitWindow)
	defer chatLimiter.Stop()

	r := router.New(h, router.Options{
		Sessions:       sessionStore,
		Roles:          identitySvc,
		CORSOrigins:    cfg.CORSOrigins,
		ContactLimiter: contactLimiter,
		ChatLimiter:    chatLimiter,
	})

	// WriteTimeout must cover a provider call bounded by ProviderTimeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped gracefully")
}
