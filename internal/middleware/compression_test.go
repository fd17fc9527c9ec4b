package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var largeBody = strings.Repeat(`{"period":1,"value":100,"label":"100"},`, 100)

func newCompressedRouter(cm *CompressionMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(cm.Handler())
	r.GET("/large", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(largeBody))
	})
	r.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/binary", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", []byte(largeBody))
	})
	r.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestCompressionGzipsLargeResponses(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())
	r := newCompressedRouter(cm)

	req := httptest.NewRequest(http.MethodGet, "/large", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))
	assert.Less(t, w.Body.Len(), len(largeBody))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, largeBody, string(decoded))

	stats := cm.GetStats()
	assert.Equal(t, int64(1), stats["compressed_requests"])
	assert.Less(t, stats["compression_ratio"].(float64), 1.0)
}

func TestCompressionSkips(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		expectedStatus int
	}{
		{"no accept header", "/large", "", http.StatusOK},
		{"gzip refused", "/large", "gzip;q=0, br", http.StatusOK},
		{"small body", "/small", "gzip", http.StatusOK},
		{"binary type", "/binary", "gzip", http.StatusOK},
		{"no content", "/empty", "gzip", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCompressedRouter(NewCompressionMiddleware(DefaultCompressionConfig()))
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Empty(t, w.Header().Get("Content-Encoding"))
		})
	}
}

func TestCompressionKeepsStatusAndBody(t *testing.T) {
	r := gin.New()
	r.Use(NewCompressionMiddleware(DefaultCompressionConfig()).Handler())
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "preset not found"})
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"preset not found"}`, w.Body.String())
}

func TestClientAcceptsGzip(t *testing.T) {
	cm := NewCompressionMiddleware(DefaultCompressionConfig())

	tests := []struct {
		header   string
		upgrade  string
		expected bool
	}{
		{"gzip", "", true},
		{"deflate, gzip;q=0.8", "", true},
		{"gzip; q=0", "", false},
		{"br", "", false},
		{"gzip", "websocket", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", tt.header)
		if tt.upgrade != "" {
			req.Header.Set("Upgrade", tt.upgrade)
		}
		assert.Equal(t, tt.expected, cm.clientAcceptsGzip(req), tt.header)
	}
}

func TestCompressionStats(t *testing.T) {
	stats := NewCompressionStats()
	assert.Equal(t, 1.0, stats.GetStats()["compression_ratio"])

	stats.RecordRequest(1000, 300, true)
	stats.RecordRequest(1000, 1000, false)

	got := stats.GetStats()
	assert.Equal(t, int64(2), got["total_requests"])
	assert.Equal(t, int64(1), got["compressed_requests"])
	assert.InDelta(t, 0.65, got["compression_ratio"], 1e-9)
	assert.InDelta(t, 0.35, got["compression_savings"], 1e-9)
}
