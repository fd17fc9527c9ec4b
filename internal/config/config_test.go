package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
)

var envKeys = []string{
	"PORT", "GIN_MODE", "REDIS_ADDR", "REDIS_PASSWORD", "CACHE_TTL",
	"RATE_LIMIT_PER_MIN", "ADSTOCK_INITIAL_IMPACT", "ADSTOCK_MAX_PERIODS", "ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adstock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100.0, cfg.Curves.InitialImpact)
	assert.Equal(t, 1000, cfg.Curves.MaxPeriods)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: "9090"
  mode: debug
cache:
  ttl: 2m
curves:
  initial_impact: 250
  max_periods: 52
presets:
  - name: radio
    title: Radio flight
    lines:
      - label: Spot
        model: geometric
        decay_factor: 0.25
        periods: 12
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 250.0, cfg.Curves.InitialImpact)
	assert.Equal(t, 52, cfg.Curves.MaxPeriods)
	// untouched sections keep their defaults
	assert.Equal(t, Default().RateLimit, cfg.RateLimit)

	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, "radio", cfg.Presets[0].Name)
	assert.Equal(t, 0.25, cfg.Presets[0].Lines[0].DecayFactor)

	registry, err := cfg.Registry()
	require.NoError(t, err)
	result, err := registry.RunNamed("radio", nil)
	require.NoError(t, err)
	assert.Len(t, result.Lines[0].Values, 12)
	_, ok := registry.Lookup(scenario.PresetWeibullPDF)
	assert.True(t, ok)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: \"9090\"\ncurves:\n  initial_impact: 250\n")
	t.Setenv("PORT", "7000")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("ADSTOCK_INITIAL_IMPACT", "42.5")
	t.Setenv("ADSTOCK_MAX_PERIODS", "104")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, "localhost:6379", cfg.RateLimit.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerMin)
	assert.Equal(t, 42.5, cfg.Curves.InitialImpact)
	assert.Equal(t, 104, cfg.Curves.MaxPeriods)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad ttl", env: map[string]string{"CACHE_TTL": "soon"}},
		{name: "bad rate", env: map[string]string{"RATE_LIMIT_PER_MIN": "many"}},
		{name: "bad impact", env: map[string]string{"ADSTOCK_INITIAL_IMPACT": "lots"}},
		{name: "infinite impact", env: map[string]string{"ADSTOCK_INITIAL_IMPACT": "+Inf"}},
		{name: "zero max periods", env: map[string]string{"ADSTOCK_MAX_PERIODS": "0"}},
		{name: "non numeric port", env: map[string]string{"PORT": "http"}},
		{name: "unknown gin mode", env: map[string]string{"GIN_MODE": "prod"}},
		{name: "malformed yaml", yaml: "server: [unclosed"},
		{name: "invalid preset", yaml: "presets:\n  - name: broken\n    lines:\n      - model: geometric\n        decay_factor: 2\n        periods: 3\n"},
		{name: "preset longer than limit", yaml: "curves:\n  max_periods: 10\npresets:\n  - name: long\n    lines:\n      - model: geometric\n        decay_factor: 0.5\n        periods: 20\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	disabled := Default()
	disabled.Cache.Enabled = false
	disabled.Cache.TTL = 0
	assert.NoError(t, disabled.Validate())

	badTimeout := Default()
	badTimeout.Security.RequestTimeout = 0
	assert.Error(t, badTimeout.Validate())

	badBody := Default()
	badBody.Security.MaxBodyBytes = -1
	assert.Error(t, badBody.Validate())
}
