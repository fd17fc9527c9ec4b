package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/encoding"
	apperrors "github.com/ZanzyTHEbar/adstock-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/types"
)

// handleHealth godoc
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Router /health [get]
func (s *server) handleHealth(c *gin.Context) {
	health := types.NewHealthResponse(s.build.Version, s.started)
	health.Metrics = s.metrics.GetStats()

	switch {
	case s.limiter == nil:
		health.Services["rate_limiter"] = "disabled"
	case s.redis.IsEnabled():
		if err := s.redis.HealthCheck(c.Request.Context()); err != nil || s.limiter.RedisDegraded() {
			health.Services["rate_limiter"] = "degraded"
			health.Status = "degraded"
		} else {
			health.Services["rate_limiter"] = "redis"
		}
	default:
		health.Services["rate_limiter"] = "memory"
	}

	if s.cache != nil {
		health.Services["cache"] = "enabled"
	} else {
		health.Services["cache"] = "disabled"
	}

	c.JSON(http.StatusOK, health)
}

func (s *server) handleMetrics(c *gin.Context) {
	stats := s.metrics.GetStats()
	stats["compression"] = s.compression.GetStats()
	if s.limiter != nil {
		stats["rate_limiter"] = s.limiter.GetStats()
	}
	stats["build"] = s.build
	c.JSON(http.StatusOK, stats)
}

func (s *server) handleCacheStats(c *gin.Context) {
	if s.cache == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	stats := s.cache.Stats()
	stats["enabled"] = true
	c.JSON(http.StatusOK, stats)
}

// handleGeometric godoc
// @Summary Geometric decay curve
// @Tags curves
// @Accept json
// @Produce json,text/csv,text/plain
// @Param request body types.GeometricRequest true "Curve parameters"
// @Param format query string false "Response format" Enums(json, csv, table)
// @Success 200 {object} encoding.ResultDocument
// @Failure 400 {object} errors.AppError
// @Router /v1/curves/geometric [post]
func (s *server) handleGeometric(c *gin.Context) {
	var req types.GeometricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}
	s.runScenario(c, req.Scenario())
}

// handleDelayedGeometric godoc
// @Summary Delayed geometric decay curve
// @Tags curves
// @Accept json
// @Produce json,text/csv,text/plain
// @Param request body types.DelayedGeometricRequest true "Curve parameters"
// @Param format query string false "Response format" Enums(json, csv, table)
// @Success 200 {object} encoding.ResultDocument
// @Failure 400 {object} errors.AppError
// @Router /v1/curves/delayed-geometric [post]
func (s *server) handleDelayedGeometric(c *gin.Context) {
	var req types.DelayedGeometricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}
	s.runScenario(c, req.Scenario())
}

// handleWeibull godoc
// @Summary Weibull CDF or PDF decay curve
// @Tags curves
// @Accept json
// @Produce json,text/csv,text/plain
// @Param request body types.WeibullRequest true "Curve parameters"
// @Param format query string false "Response format" Enums(json, csv, table)
// @Success 200 {object} encoding.ResultDocument
// @Failure 400 {object} errors.AppError
// @Router /v1/curves/weibull [post]
func (s *server) handleWeibull(c *gin.Context) {
	var req types.WeibullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}
	s.runScenario(c, req.Scenario())
}

// handleScenario godoc
// @Summary Compute every line of a scenario
// @Tags scenarios
// @Accept json
// @Produce json,text/csv,text/plain
// @Param request body scenario.Scenario true "Scenario"
// @Param format query string false "Response format" Enums(json, csv, table)
// @Success 200 {object} encoding.ResultDocument
// @Failure 400 {object} errors.AppError
// @Router /v1/scenarios [post]
func (s *server) handleScenario(c *gin.Context) {
	var req scenario.Scenario
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}
	s.runScenario(c, req)
}

// handleListPresets godoc
// @Summary List registered presets
// @Tags presets
// @Produce json
// @Success 200 {object} types.PresetListResponse
// @Router /v1/presets [get]
func (s *server) handleListPresets(c *gin.Context) {
	presets := s.registry.List()
	resp := types.PresetListResponse{
		Presets: make([]types.PresetSummary, len(presets)),
		Count:   len(presets),
	}
	for i, p := range presets {
		resp.Presets[i] = types.NewPresetSummary(p)
	}
	c.JSON(http.StatusOK, resp)
}

// handleRunPreset godoc
// @Summary Run a preset
// @Tags presets
// @Produce json,text/csv,text/plain
// @Param name path string true "Preset name"
// @Param impact query number false "Starting impact override"
// @Param format query string false "Response format" Enums(json, csv, table)
// @Success 200 {object} encoding.ResultDocument
// @Failure 404 {object} errors.AppError
// @Router /v1/presets/{name} [get]
func (s *server) handleRunPreset(c *gin.Context) {
	name := c.Param("name")
	if err := s.security.ValidateInput(name); err != nil {
		apperrors.Respond(c, apperrors.NewValidationErrorWithMap(map[string]string{"name": err.Error()}))
		return
	}

	format, ok := s.format(c)
	if !ok {
		return
	}

	var impact *float64
	if raw := c.Query("impact"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.NewValidationErrorWithMap(map[string]string{"impact": "must be a number"}))
			return
		}
		impact = &v
	}
	if impact == nil {
		// presets without their own impact start from the configured one
		if preset, ok := s.registry.Lookup(name); ok && preset.Impact == nil {
			v := s.cfg.Curves.InitialImpact
			impact = &v
		}
	}

	start := time.Now()
	result, err := s.registry.RunNamed(name, impact)
	if err != nil {
		if errors.Is(err, scenario.ErrUnknownScenario) {
			apperrors.Respond(c, apperrors.NewNotFoundError("preset", name))
			return
		}
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}
	s.respond(c, format, result, time.Since(start))
}

// runScenario applies the configured defaults and limits, then computes and writes sc
func (s *server) runScenario(c *gin.Context, sc scenario.Scenario) {
	format, ok := s.format(c)
	if !ok {
		return
	}

	sc = sc.WithDefaultImpact(s.cfg.Curves.InitialImpact)
	if periods := sc.MaxPeriods(); periods > s.cfg.Curves.MaxPeriods {
		apperrors.Respond(c, apperrors.NewValidationErrorWithMap(map[string]string{
			"periods": fmt.Sprintf("must be <= %d, got %d", s.cfg.Curves.MaxPeriods, periods),
		}))
		return
	}

	start := time.Now()
	result, err := scenario.Run(sc)
	if err != nil {
		apperrors.Respond(c, apperrors.ToAppError(err))
		return
	}
	s.respond(c, format, result, time.Since(start))
}

func (s *server) format(c *gin.Context) (encoding.Format, bool) {
	format, err := encoding.ParseFormat(c.Query("format"))
	if err != nil {
		apperrors.Respond(c, apperrors.NewValidationErrorWithMap(map[string]string{"format": err.Error()}))
		return "", false
	}
	return format, true
}

func (s *server) respond(c *gin.Context, format encoding.Format, result scenario.Result, elapsed time.Duration) {
	s.metrics.RecordScenario(elapsed)
	for _, line := range result.Lines {
		s.metrics.RecordCurve(string(line.Kind), len(line.Values))
	}
	s.logger.CurveLogger(result.Name, len(result.Lines), result.Periods(), result.Impact, elapsed, false)

	var buf bytes.Buffer
	if err := encoding.NewEncoder(format, false).Encode(&buf, result); err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to encode result", err))
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
