package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/adstock-o-meter/docs"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/cache"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/config"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/middleware"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/ratelimit"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/security"
)

// curvesPrefix is the API surface that is rate limited and cached
const curvesPrefix = "/v1/"

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// server carries everything the handlers need. limiter, redis and cache
// are nil when disabled in config.
type server struct {
	cfg         config.Config
	registry    *scenario.Registry
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	security    *security.SecurityMiddleware
	compression *middleware.CompressionMiddleware
	limiter     *ratelimit.RateLimiter
	redis       *ratelimit.RedisClient
	cache       *cache.Cache
	build       buildInfo
	started     time.Time
}

func setupRouter(s *server) *gin.Engine {
	r := gin.New()

	// Monitoring first so every request is counted
	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.cfg.Security.MaxBodyBytes))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(s.security.CORS())
	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.CSPMiddleware("/swagger/"))
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.BodyLimit)
	r.Use(s.security.ValidateContentType)

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/metrics/prometheus", gin.WrapH(promhttp.Handler()))
	r.GET("/cache/stats", s.handleCacheStats)

	if s.cfg.Server.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(curvesPrefix)
	if s.limiter != nil {
		v1.Use(s.limiter.IPRateLimitMiddleware())
	}
	// compression wraps the cache so cached bodies stay uncompressed
	v1.Use(s.compression.Handler())
	if s.cache != nil {
		v1.Use(s.cache.Middleware(s.metrics))
	}

	v1.POST("/curves/geometric", s.handleGeometric)
	v1.POST("/curves/delayed-geometric", s.handleDelayedGeometric)
	v1.POST("/curves/weibull", s.handleWeibull)
	v1.POST("/scenarios", s.handleScenario)
	v1.GET("/presets", s.handleListPresets)
	v1.GET("/presets/:name", s.handleRunPreset)

	return r
}
