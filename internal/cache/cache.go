// Package cache memoises computed curve responses in a bounded ristretto cache.
package cache

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/monitoring"
)

// CacheItem is a captured response body and its content type
type CacheItem struct {
	ContentType string
	Data        []byte
}

// Cache provides a TTL cache bounded by total body size
type Cache struct {
	store  *ristretto.Cache
	ttl    time.Duration
	prefix string
	logger *monitoring.Logger
}

// NewCache creates a cache holding up to maxCost bytes of responses for ttl.
// Only requests whose path starts with prefix are cached by the middleware.
func NewCache(ttl time.Duration, maxCost int64, prefix string, logger *monitoring.Logger) (*Cache, error) {
	// ~10x the expected number of 1KB entries
	counters := 10 * (maxCost / 1024)
	if counters < 1000 {
		counters = 1000
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	return &Cache{store: store, ttl: ttl, prefix: prefix, logger: logger}, nil
}

// generateKey hashes everything that can change the response
func (c *Cache) generateKey(method, path, query string, body []byte) string {
	h := md5.New()
	io.WriteString(h, method)
	h.Write([]byte{0})
	io.WriteString(h, path)
	h.Write([]byte{0})
	io.WriteString(h, query)
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves an item from the cache
func (c *Cache) Get(key string) (*CacheItem, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	item, ok := v.(*CacheItem)
	return item, ok
}

// Set stores an item; ristretto applies it asynchronously and may drop it under pressure
func (c *Cache) Set(key string, item *CacheItem) bool {
	return c.store.SetWithTTL(key, item, int64(len(item.Data)+len(item.ContentType)), c.ttl)
}

// Wait blocks until buffered writes are applied
func (c *Cache) Wait() {
	c.store.Wait()
}

// Delete removes an item from the cache
func (c *Cache) Delete(key string) {
	c.store.Del(key)
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.store.Clear()
}

// Close stops the cache's background goroutines
func (c *Cache) Close() {
	c.store.Close()
}

// Stats returns cache statistics
func (c *Cache) Stats() map[string]interface{} {
	m := c.store.Metrics
	return map[string]interface{}{
		"hits":         m.Hits(),
		"misses":       m.Misses(),
		"hit_ratio":    m.Ratio(),
		"keys_added":   m.KeysAdded(),
		"keys_evicted": m.KeysEvicted(),
		"cost_added":   m.CostAdded(),
		"cost_evicted": m.CostEvicted(),
		"sets_dropped": m.SetsDropped(),
		"ttl_seconds":  c.ttl.Seconds(),
	}
}

// Middleware serves repeated curve requests from the cache
func (c *Cache) Middleware(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		method := ctx.Request.Method
		if (method != http.MethodPost && method != http.MethodGet) || !strings.HasPrefix(ctx.Request.URL.Path, c.prefix) {
			ctx.Next()
			return
		}

		var body []byte
		if ctx.Request.Body != nil {
			var err error
			body, err = io.ReadAll(ctx.Request.Body)
			if err != nil {
				_ = ctx.Error(err)
				ctx.Abort()
				return
			}
			ctx.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		cacheKey := c.generateKey(method, ctx.Request.URL.Path, ctx.Request.URL.RawQuery, body)

		if item, found := c.Get(cacheKey); found {
			c.logger.CacheLogger("hit", cacheKey, true)
			metrics.IncrementCacheHit()
			ctx.Header("X-Cache", "HIT")
			ctx.Data(http.StatusOK, item.ContentType, item.Data)
			ctx.Abort()
			return
		}

		c.logger.CacheLogger("miss", cacheKey, false)
		metrics.IncrementCacheMiss()
		ctx.Header("X-Cache", "MISS")

		wrapper := &responseWriter{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = wrapper
		ctx.Next()

		if wrapper.Status() == http.StatusOK && wrapper.body.Len() > 0 {
			c.Set(cacheKey, &CacheItem{
				ContentType: wrapper.Header().Get("Content-Type"),
				Data:        append([]byte(nil), wrapper.body.Bytes()...),
			})
		}
	}
}

// responseWriter wraps gin.ResponseWriter to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
