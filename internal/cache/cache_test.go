package cache

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/monitoring"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := NewCache(ttl, 1<<20, "/v1/", monitoring.NewLoggerWithWriter(io.Discard, slog.LevelInfo))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCacheGetSet(t *testing.T) {
	c := newTestCache(t, time.Minute)
	key := c.generateKey(http.MethodPost, "/v1/curves/geometric", "", []byte(`{"decay_factor":0.3}`))

	_, found := c.Get(key)
	assert.False(t, found)

	c.Set(key, &CacheItem{ContentType: "application/json", Data: []byte(`{"ok":true}`)})
	c.Wait()

	item, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, `{"ok":true}`, string(item.Data))

	c.Delete(key)
	_, found = c.Get(key)
	assert.False(t, found)
}

func TestCacheTTL(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)
	c.Set("k", &CacheItem{Data: []byte("v")})
	c.Wait()
	_, found := c.Get("k")
	require.True(t, found)

	time.Sleep(120 * time.Millisecond)
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestGenerateKey(t *testing.T) {
	c := newTestCache(t, time.Minute)
	base := c.generateKey("POST", "/v1/curves/weibull", "", []byte("{}"))
	assert.Equal(t, base, c.generateKey("POST", "/v1/curves/weibull", "", []byte("{}")))
	assert.NotEqual(t, base, c.generateKey("POST", "/v1/curves/weibull", "format=csv", []byte("{}")))
	assert.NotEqual(t, base, c.generateKey("POST", "/v1/curves/geometric", "", []byte("{}")))
	assert.NotEqual(t, base, c.generateKey("POST", "/v1/curves/weibull", "", []byte(`{"a":1}`)))
}

func TestMiddleware(t *testing.T) {
	c := newTestCache(t, time.Minute)
	metrics := monitoring.NewMetrics()
	calls := 0

	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/v1/curves/geometric", func(ctx *gin.Context) {
		calls++
		body, _ := io.ReadAll(ctx.Request.Body)
		ctx.Data(http.StatusOK, "application/json", body)
	})
	r.POST("/v1/fail", func(ctx *gin.Context) {
		calls++
		ctx.Status(http.StatusBadRequest)
	})
	r.GET("/health", func(ctx *gin.Context) {
		calls++
		ctx.String(http.StatusOK, "ok")
	})

	send := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		c.Wait()
		return w
	}

	first := send(http.MethodPost, "/v1/curves/geometric", `{"periods":5}`)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, `{"periods":5}`, first.Body.String())

	second := send(http.MethodPost, "/v1/curves/geometric", `{"periods":5}`)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `{"periods":5}`, second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	send(http.MethodPost, "/v1/curves/geometric", `{"periods":6}`)
	assert.Equal(t, 2, calls)

	// failures are never cached
	send(http.MethodPost, "/v1/fail", "")
	send(http.MethodPost, "/v1/fail", "")
	assert.Equal(t, 4, calls)

	// outside the prefix the cache stays out of the way
	w := send(http.MethodGet, "/health", "")
	send(http.MethodGet, "/health", "")
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.Equal(t, 6, calls)

	assert.Equal(t, int64(1), metrics.CacheHits)
	assert.Equal(t, int64(4), metrics.CacheMisses)

	stats := c.Stats()
	assert.Equal(t, 60.0, stats["ttl_seconds"])
	assert.Contains(t, stats, "hit_ratio")
}

func TestResponseWriterCapturesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	w := &responseWriter{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
	_, _ = w.Write([]byte("ab"))
	_, _ = w.WriteString("cd")
	assert.Equal(t, "abcd", w.body.String())
	assert.Equal(t, "abcd", rec.Body.String())
}
