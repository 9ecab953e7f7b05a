// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package main

import (
	"log/slog"
	"os"

	"github.com/AEO-Content-Inc/aeorank/internal/acquire"
	"github.com/AEO-Content-Inc/aeorank/internal/audit"
	"github.com/AEO-Content-Inc/aeorank/internal/config"
	"github.com/AEO-Content-Inc/aeorank/internal/discover"
	"github.com/AEO-Content-Inc/aeorank/internal/dnsprobe"
	"github.com/AEO-Content-Inc/aeorank/internal/handlers"
	"github.com/AEO-Content-Inc/aeorank/internal/headless"
	"github.com/AEO-Content-Inc/aeorank/internal/httpclient"
	"github.com/AEO-Content-Inc/aeorank/internal/middleware"
	"github.com/AEO-Content-Inc/aeorank/internal/score"
	"github.com/AEO-Content-Inc/aeorank/internal/telemetry"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_requests", middleware.RateLimitMaxRequests, "window_seconds", middleware.RateLimitWindow)

	client := httpclient.NewWithTimeout(cfg.FetchTimeout)
	renderer := headless.New(cfg.HeadlessEnabled)
	prober := dnsprobe.New()

	orchestrator := acquire.New(client, renderer, prober)
	if cfg.SPATextThreshold > 0 {
		orchestrator.SPAThreshold = cfg.SPATextThreshold
	}
	discoverer := discover.New(client)

	weights := score.Merged(cfg.WeightOverrides)
	auditor := audit.New(orchestrator, discoverer)
	auditor.Weights = weights
	slog.Info("Auditor initialized", "headless", cfg.HeadlessEnabled, "fetch_timeout", cfg.FetchTimeout)

	registry := telemetry.NewRegistry()

	auditHandler := handlers.NewAuditHandler(auditor, rateLimiter, registry)
	healthHandler := handlers.NewHealthHandler(cfg.AppVersion, registry)
	statsHandler := handlers.NewStatsHandler(registry, weights)

	router.POST("/api/audit", auditHandler.Audit)
	router.GET("/api/audit/:domain", auditHandler.AuditDomain)
	router.GET("/api/stats", statsHandler.Stats)
	router.GET("/api/health", healthHandler.HealthCheck)
	router.GET("/healthz", healthHandler.HealthCheck)

	slog.Info("Starting server", "port", cfg.Port, "version", cfg.AppVersion)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
