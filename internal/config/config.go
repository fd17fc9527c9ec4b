// Package config loads service and CLI settings from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
)

// Config holds all adstock-o-meter configuration.
type Config struct {
	Server    ServerConfig        `yaml:"server"`
	Cache     CacheConfig         `yaml:"cache"`
	RateLimit RateLimitConfig     `yaml:"rate_limit"`
	Security  SecurityConfig      `yaml:"security"`
	Curves    CurvesConfig        `yaml:"curves"`
	Presets   []scenario.Scenario `yaml:"presets"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	EnableSwagger   bool          `yaml:"enable_swagger"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	MaxCost int64         `yaml:"max_cost"` // bytes of cached response bodies
}

type RateLimitConfig struct {
	Enabled        bool   `yaml:"enabled"`
	RequestsPerMin int    `yaml:"requests_per_min"`
	Burst          int    `yaml:"burst"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
}

type SecurityConfig struct {
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	EnableHSTS     bool          `yaml:"enable_hsts"`
}

// CurvesConfig bounds curve requests and supplies the default starting impact.
type CurvesConfig struct {
	InitialImpact float64 `yaml:"initial_impact"`
	MaxPeriods    int     `yaml:"max_periods"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "release",
			ShutdownTimeout: 30 * time.Second,
			EnableSwagger:   true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
			MaxCost: 64 << 20,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
			Burst:          20,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RequestTimeout: 10 * time.Second,
			MaxBodyBytes:   64 << 10,
		},
		Curves: CurvesConfig{
			InitialImpact: scenario.DefaultImpact,
			MaxPeriods:    1000,
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("PORT"); ok {
		c.Server.Port = v
	}
	if v, ok := get("GIN_MODE"); ok {
		c.Server.Mode = v
	}
	if v, ok := get("REDIS_ADDR"); ok {
		c.RateLimit.RedisAddr = v
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		c.RateLimit.RedisPassword = v
	}
	if v, ok := get("CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.Cache.TTL = ttl
	}
	if v, ok := get("RATE_LIMIT_PER_MIN"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_PER_MIN %q: %w", v, err)
		}
		c.RateLimit.RequestsPerMin = n
	}
	if v, ok := get("ADSTOCK_INITIAL_IMPACT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ADSTOCK_INITIAL_IMPACT %q: %w", v, err)
		}
		c.Curves.InitialImpact = f
	}
	if v, ok := get("ADSTOCK_MAX_PERIODS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ADSTOCK_MAX_PERIODS %q: %w", v, err)
		}
		c.Curves.MaxPeriods = n
	}
	if v, ok := get("ENABLE_HSTS"); ok {
		c.Security.EnableHSTS = v == "true"
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Security.AllowedOrigins = origins
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric, got %q", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test, got %q", c.Server.Mode)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	if c.Cache.Enabled && c.Cache.MaxCost <= 0 {
		return fmt.Errorf("cache.max_cost must be positive when the cache is enabled")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMin < 1 {
		return fmt.Errorf("rate_limit.requests_per_min must be >= 1")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.burst must be >= 0")
	}
	if c.Security.RequestTimeout <= 0 {
		return fmt.Errorf("security.request_timeout must be positive")
	}
	if c.Security.MaxBodyBytes <= 0 {
		return fmt.Errorf("security.max_body_bytes must be positive")
	}
	if math.IsNaN(c.Curves.InitialImpact) || math.IsInf(c.Curves.InitialImpact, 0) {
		return fmt.Errorf("curves.initial_impact must be finite")
	}
	if c.Curves.MaxPeriods < 1 {
		return fmt.Errorf("curves.max_periods must be >= 1")
	}
	for _, p := range c.Presets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if p.MaxPeriods() > c.Curves.MaxPeriods {
			return fmt.Errorf("preset %q exceeds curves.max_periods (%d)", p.Name, c.Curves.MaxPeriods)
		}
	}
	return nil
}

// Registry returns the built-in presets plus any configured ones.
func (c Config) Registry() (*scenario.Registry, error) {
	registry := scenario.NewRegistry()
	for _, p := range c.Presets {
		if err := registry.Register(p); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return registry, nil
}

// ListenAddr returns the :port address string.
func (c Config) ListenAddr() string {
	return ":" + c.Server.Port
}
