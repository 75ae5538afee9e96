package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reportam/database"
	"reportam/internal/config"
	"reportam/internal/metrics"
	"reportam/internal/microservices/http-api/cache"
	"reportam/internal/microservices/http-api/handler"
	"reportam/internal/microservices/http-api/middleware"
	"reportam/internal/microservices/http-api/repository"
	"reportam/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	// Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("database_migrate_failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	commentRepo := repository.NewCommentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Optional thread cache
	var threadCache service.ThreadCache
	if cfg.RedisURL != "" {
		rc, err := cache.NewThreadCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("thread_cache_disabled", "error", err)
		} else {
			defer rc.Close()
			threadCache = rc
			logger.Info("thread_cache_enabled", "ttl", cfg.CacheTTL)
		}
	}

	// Services
	authService := service.NewAuthService(cfg)
	commentService := service.NewCommentService(commentRepo, reportRepo, threadCache, logger)

	// Handlers
	commentHandler := handler.NewCommentHandler(commentService, cfg.DefaultPageSize, cfg.MaxPageSize)
	adminHandler := handler.NewAdminCommentHandler(commentHandler)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.PrometheusEnabled {
		r.GET("/metrics", metrics.Handler())
	}

	limiter := middleware.NewClientRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	api := r.Group("/api")
	api.Use(middleware.AdminAuthMiddleware(authService))
	commentHandler.RegisterRoutes(api, limiter.Middleware())

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	adminHandler.RegisterRoutes(admin)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server_starting", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			os.Exit(1)
		}
	}()

	// Handle shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown_signal_received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	logger.Info("server_stopped")
}
