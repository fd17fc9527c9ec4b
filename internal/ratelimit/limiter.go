package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/resilience"
)

const (
	backendRedis  = "redis"
	backendMemory = "memory"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMin int           // sustained requests per client per minute
	Burst          int           // extra headroom for short spikes; 0 means RequestsPerMin
	IdleTTL        time.Duration // in-memory limiters unused for this long are dropped
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerMin: 120,
		Burst:          20,
		IdleTTL:        10 * time.Minute,
	}
}

func (c Config) burst() int {
	if c.Burst > 0 {
		return c.Burst
	}
	return c.RequestsPerMin
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
	Backend    string
}

type fallbackEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides distributed rate limiting with Redis and in-memory fallback
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	breaker      *resilience.CircuitBreaker
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*fallbackEntry
	fallbackMutex    sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter that prefers Redis and falls back to memory.
// redisClient may be nil.
func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultConfig().IdleTTL
	}
	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		breaker:          resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{FailureThreshold: 5, RecoveryTimeout: 30 * time.Second}),
		fallbackLimiters: make(map[string]*fallbackEntry),
		stop:             make(chan struct{}),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	go rl.cleanupLoop(config.IdleTTL)

	return rl
}

// AllowIP checks if an IP address may make another request this minute
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	return rl.allow(ctx, fmt.Sprintf("ratelimit:ip:%s", ip), rl.config.RequestsPerMin, time.Minute)
}

// allow performs the actual rate limit check using Redis or fallback
func (rl *RateLimiter) allow(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	if rl.redisLimiter != nil && rl.redisClient.IsEnabled() {
		var result *Result
		err := rl.breaker.Call(func() error {
			var err error
			result, err = rl.allowRedis(ctx, key, limit, period)
			return err
		})
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, resilience.ErrCircuitOpen):
			// Redis is known bad; go straight to memory until the breaker lets a trial through
		default:
			slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitRedisError()
			}
		}
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key, limit, period), nil
}

// allowRedis uses the GCRA limiter from redis_rate
func (rl *RateLimiter) allowRedis(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit,
		Burst:  rl.config.burst(),
		Period: period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
		Backend:    backendRedis,
	}, nil
}

// allowFallback uses a per-key token bucket
func (rl *RateLimiter) allowFallback(key string, limit int, period time.Duration) *Result {
	if limit < 1 {
		limit = 1
	}
	now := time.Now()
	every := period / time.Duration(limit)

	rl.fallbackMutex.Lock()
	entry, exists := rl.fallbackLimiters[key]
	if !exists {
		entry = &fallbackEntry{limiter: rate.NewLimiter(rate.Every(every), rl.config.burst())}
		rl.fallbackLimiters[key] = entry
	}
	entry.lastSeen = now
	rl.fallbackMutex.Unlock()

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)

	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	result := &Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(time.Duration(float64(rl.config.burst())-tokens) * every),
		Backend:   backendMemory,
	}
	if !allowed {
		result.RetryAfter = time.Duration((1 - tokens) * float64(every))
	}
	return result
}

// cleanupLoop drops fallback limiters that have been idle for ttl
func (rl *RateLimiter) cleanupLoop(ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			if removed := rl.evictIdle(now.Add(-ttl)); removed > 0 {
				slog.Debug("Evicted idle fallback rate limiters", "count", removed)
			}
		}
	}
}

func (rl *RateLimiter) evictIdle(cutoff time.Time) int {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	removed := 0
	for key, entry := range rl.fallbackLimiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.fallbackLimiters, key)
			removed++
		}
	}
	return removed
}

// Close stops the background cleanup
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// RedisDegraded reports whether Redis is configured but the breaker is routing around it
func (rl *RateLimiter) RedisDegraded() bool {
	return rl.redisClient.IsEnabled() && rl.breaker.State() != resilience.StateClosed
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMutex.Lock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMutex.Unlock()

	return map[string]interface{}{
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"fallback_limiters": fallbackCount,
		"requests_per_min":  rl.config.RequestsPerMin,
		"burst":             rl.config.burst(),
		"redis_pool":        rl.redisClient.GetPoolStats(),
		"redis_breaker":     rl.breaker.Stats(),
	}
}
