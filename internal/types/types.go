// Package types holds the HTTP request and response shapes of the API.
package types

import (
	"time"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/adstock"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
)

// GeometricRequest is the body of POST /v1/curves/geometric
type GeometricRequest struct {
	Label       string   `json:"label,omitempty" binding:"max=64"`
	Impact      *float64 `json:"impact,omitempty"`
	DecayFactor float64  `json:"decay_factor" binding:"gte=0,lte=1"`
	Periods     int      `json:"periods" binding:"required,gte=1"`
}

// Scenario wraps the request as a single-line scenario
func (r GeometricRequest) Scenario() scenario.Scenario {
	return single("geometric", r.Impact, scenario.LineSpec{
		Label:       r.Label,
		Model:       string(adstock.KindGeometric),
		DecayFactor: r.DecayFactor,
		Periods:     r.Periods,
	})
}

// DelayedGeometricRequest is the body of POST /v1/curves/delayed-geometric
type DelayedGeometricRequest struct {
	Label       string   `json:"label,omitempty" binding:"max=64"`
	Impact      *float64 `json:"impact,omitempty"`
	DecayFactor float64  `json:"decay_factor" binding:"gte=0,lte=1"`
	PeakPeriod  int      `json:"peak_period"`
	MaxLag      int      `json:"max_lag" binding:"required,gte=1"`
}

func (r DelayedGeometricRequest) Scenario() scenario.Scenario {
	return single("delayed-geometric", r.Impact, scenario.LineSpec{
		Label:       r.Label,
		Model:       string(adstock.KindDelayedGeometric),
		DecayFactor: r.DecayFactor,
		PeakPeriod:  r.PeakPeriod,
		MaxLag:      r.MaxLag,
	})
}

// WeibullRequest is the body of POST /v1/curves/weibull. Mode defaults to cdf
// and Normalized to true.
type WeibullRequest struct {
	Label      string   `json:"label,omitempty" binding:"max=64"`
	Impact     *float64 `json:"impact,omitempty"`
	Shape      float64  `json:"shape" binding:"gte=0"`
	Scale      float64  `json:"scale" binding:"gte=0,lte=1"`
	Periods    int      `json:"periods" binding:"required,gte=1"`
	Mode       string   `json:"mode,omitempty" binding:"omitempty,adstockmode"`
	Normalized *bool    `json:"normalized,omitempty"`
}

func (r WeibullRequest) Scenario() scenario.Scenario {
	return single("weibull", r.Impact, scenario.LineSpec{
		Label:      r.Label,
		Model:      string(adstock.KindWeibull),
		Shape:      r.Shape,
		Scale:      r.Scale,
		Periods:    r.Periods,
		Mode:       r.Mode,
		Normalized: r.Normalized,
	})
}

func single(name string, impact *float64, line scenario.LineSpec) scenario.Scenario {
	if line.Label == "" {
		line.Label = name
	}
	return scenario.Scenario{
		Name:   name,
		Impact: impact,
		Lines:  []scenario.LineSpec{line},
	}
}

// PresetSummary describes a registered scenario without computing it
type PresetSummary struct {
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Lines       []string `json:"lines"`
}

// NewPresetSummary lists the line labels of s
func NewPresetSummary(s scenario.Scenario) PresetSummary {
	labels := make([]string, len(s.Lines))
	for i, line := range s.Lines {
		labels[i] = line.Label
	}
	return PresetSummary{
		Name:        s.Name,
		Title:       s.Title,
		Description: s.Description,
		Lines:       labels,
	}
}

// PresetListResponse is the body of GET /v1/presets
type PresetListResponse struct {
	Presets []PresetSummary `json:"presets"`
	Count   int             `json:"count"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Services  map[string]string      `json:"services"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// NewHealthResponse stamps the current time in RFC 3339
func NewHealthResponse(version string, started time.Time) HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   version,
		Uptime:    time.Since(started).Round(time.Second).String(),
		Services:  map[string]string{},
	}
}
