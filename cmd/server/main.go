// @title Adstock-o-Meter API
// @version 1.0
// @description Adstock decay curves: geometric, delayed geometric and Weibull CDF/PDF.
// @BasePath /
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/config"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/middleware"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/ratelimit"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/security"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/types"
)

// Set with -ldflags "-X main.version=..."
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	flag.Parse()

	// Structured logging setup
	level := slog.LevelInfo
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}
	if cfg.Server.Mode == gin.DebugMode {
		level = slog.LevelDebug
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	}
	gin.SetMode(cfg.Server.Mode)

	if err := types.RegisterValidators(); err != nil {
		slog.Error("Failed to register request validators", "error", err)
		os.Exit(1)
	}

	registry, err := cfg.Registry()
	if err != nil {
		slog.Error("Failed to register presets", "error", err)
		os.Exit(1)
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()
	appLogger.SetLevel(level)

	deps := &server{
		cfg:      cfg,
		registry: registry,
		metrics:  appMetrics,
		logger:   appLogger,
		security: security.NewSecurityMiddleware(security.SecurityConfig{
			MaxBodyBytes:   cfg.Security.MaxBodyBytes,
			AllowedOrigins: cfg.Security.AllowedOrigins,
			RequestTimeout: cfg.Security.RequestTimeout,
			EnableHSTS:     cfg.Security.EnableHSTS,
		}),
		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		build:       buildInfo{Version: version, Commit: commit, BuildDate: buildDate},
		started:     time.Now(),
	}

	if cfg.RateLimit.Enabled {
		redisClient, err := ratelimit.NewRedisClient(context.Background(), cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB)
		if err != nil {
			slog.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		}
		deps.redis = redisClient
		deps.limiter = ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
			RequestsPerMin: cfg.RateLimit.RequestsPerMin,
			Burst:          cfg.RateLimit.Burst,
		}, appMetrics)
	}

	if cfg.Cache.Enabled {
		deps.cache, err = cache.NewCache(cfg.Cache.TTL, cfg.Cache.MaxCost, curvesPrefix, appLogger)
		if err != nil {
			slog.Error("Failed to initialize response cache", "error", err)
			os.Exit(1)
		}
	}

	r := setupRouter(deps)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port, "version", version, "presets", len(registry.Names()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	deps.close()
	slog.Info("Server exited")
}

func (s *server) close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.cache != nil {
		s.cache.Close()
	}
	if s.redis != nil {
		errors.SafeClose(s.redis, "redis")
	}
}
