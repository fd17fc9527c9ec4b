package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, 128, config.MaxInputLength)
	assert.Equal(t, int64(64<<10), config.MaxBodyBytes)
	assert.Contains(t, config.AllowedOrigins, "http://localhost:3000")
	assert.Contains(t, config.AllowedOrigins, "http://localhost:5173")
	assert.Equal(t, 10*time.Second, config.RequestTimeout)
	assert.False(t, config.EnableHSTS)

	sm := NewSecurityMiddleware(SecurityConfig{})
	assert.Equal(t, 128, sm.Config().MaxInputLength)
}

func TestValidateInput(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	tests := []struct {
		name        string
		input       string
		expectError bool
		errorMsg    string
	}{
		{name: "preset name", input: "weibull-cdf"},
		{name: "unicode", input: "kampagne-über"},
		{name: "empty", input: "", expectError: true, errorMsg: "input is empty"},
		{name: "too long", input: strings.Repeat("a", 129), expectError: true, errorMsg: "exceeds maximum length"},
		{name: "null byte", input: "tv\x00", expectError: true, errorMsg: "invalid characters"},
		{name: "newline", input: "tv\nradio", expectError: true, errorMsg: "invalid characters"},
		{name: "invalid UTF-8", input: "tv\xff\xfe", expectError: true, errorMsg: "invalid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sm.ValidateInput(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name string
		hsts bool
	}{
		{"without hsts", false},
		{"with hsts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSecurityMiddleware(SecurityConfig{EnableHSTS: tt.hsts})
			r := gin.New()
			r.Use(sm.SecurityHeaders)
			r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
			assert.Equal(t, tt.hsts, w.Header().Get("Strict-Transport-Security") != "")
		})
	}
}

func TestCSPMiddleware(t *testing.T) {
	sm := NewSecurityMiddleware(SecurityConfig{CSPReportURI: "/csp-report"})
	r := gin.New()
	r.Use(sm.CSPMiddleware("/swagger/"))

	var nonce string
	r.GET("/swagger/*any", func(c *gin.Context) {
		nonce = GetNonce(c)
		c.Status(http.StatusOK)
	})
	r.GET("/v1/presets", func(c *gin.Context) {
		assert.Empty(t, GetNonce(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/presets", nil))
	assert.Equal(t, apiPolicy, w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy-Report-Only"), "report-uri /csp-report")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.NotEmpty(t, nonce)
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'nonce-"+nonce+"'")
}

func TestGenerateNonce(t *testing.T) {
	a, err := GenerateNonce()
	require.NoError(t, err)
	b, err := GenerateNonce()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}

func TestValidateContentType(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	r := gin.New()
	r.Use(sm.ValidateContentType)
	r.POST("/v1/scenarios", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/v1/presets", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		expected    int
	}{
		{"json", http.MethodPost, "/v1/scenarios", `{}`, "application/json", http.StatusOK},
		{"json with charset", http.MethodPost, "/v1/scenarios", `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"xml", http.MethodPost, "/v1/scenarios", `<a/>`, "application/xml", http.StatusUnsupportedMediaType},
		{"missing header", http.MethodPost, "/v1/scenarios", `{}`, "", http.StatusUnsupportedMediaType},
		{"empty body", http.MethodPost, "/v1/scenarios", ``, "", http.StatusOK},
		{"get", http.MethodGet, "/v1/presets", ``, "text/plain", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	sm := NewSecurityMiddleware(SecurityConfig{RequestTimeout: 2 * time.Second})
	r := gin.New()
	r.Use(sm.RequestTimeout)
	r.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	assert.Equal(t, "2", w.Header().Get("X-Timeout"))
}

func TestBodyLimit(t *testing.T) {
	sm := NewSecurityMiddleware(SecurityConfig{MaxBodyBytes: 16})
	r := gin.New()
	r.Use(sm.BodyLimit)
	r.POST("/", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request body too large")

	// unknown length bodies are cut off while reading
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name     string
		origins  []string
		origin   string
		expected string
	}{
		{"allowed", []string{"http://localhost:3000"}, "http://localhost:3000", "http://localhost:3000"},
		{"not allowed", []string{"http://localhost:3000"}, "http://evil.example", ""},
		{"wildcard", []string{"*"}, "http://anywhere.example", "*"},
		{"bad entries skipped", []string{"localhost:3000"}, "http://localhost:3000", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSecurityMiddleware(SecurityConfig{AllowedOrigins: tt.origins})
			r := gin.New()
			r.Use(sm.CORS())
			r.GET("/v1/presets", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/v1/presets", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
