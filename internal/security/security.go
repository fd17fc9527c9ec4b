// Package security holds the HTTP hardening middleware: headers, CSP, CORS,
// content-type checks, body limits and request deadlines.
package security

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/adstock-o-meter/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxInputLength int           `json:"max_input_length"`
	MaxBodyBytes   int64         `json:"max_body_bytes"`
	AllowedOrigins []string      `json:"allowed_origins"`
	RequestTimeout time.Duration `json:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts"`
	CSPReportURI   string        `json:"csp_report_uri"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxInputLength: 128,
		MaxBodyBytes:   64 << 10,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeout: 10 * time.Second,
	}
}

// SecurityMiddleware bundles the request hardening handlers
type SecurityMiddleware struct {
	config SecurityConfig
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	if config.MaxInputLength <= 0 {
		config.MaxInputLength = DefaultSecurityConfig().MaxInputLength
	}
	return &SecurityMiddleware{config: config}
}

// Config returns the effective configuration
func (sm *SecurityMiddleware) Config() SecurityConfig {
	return sm.config
}

// ValidateInput checks a short user-supplied identifier such as a preset name
func (sm *SecurityMiddleware) ValidateInput(input string) error {
	if input == "" {
		return fmt.Errorf("input is empty")
	}
	if len(input) > sm.config.MaxInputLength {
		return fmt.Errorf("input exceeds maximum length of %d characters", sm.config.MaxInputLength)
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("input contains invalid UTF-8 encoding")
	}
	for _, r := range input {
		if unicode.IsControl(r) {
			return fmt.Errorf("input contains invalid characters")
		}
	}
	return nil
}

// ValidateContentType rejects request bodies that are not JSON.
// Requests without a body are left alone.
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		c.Next()
		return
	}
	if c.Request.ContentLength == 0 {
		c.Next()
		return
	}

	contentType := c.GetHeader("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mediaType, "application/json") {
		apperrors.Respond(c, apperrors.NewUnsupportedMediaTypeError(contentType))
		c.Abort()
		return
	}

	c.Next()
}

// RequestTimeout attaches a deadline to the request context
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// BodyLimit caps how much of a request body handlers may read
func (sm *SecurityMiddleware) BodyLimit(c *gin.Context) {
	if sm.config.MaxBodyBytes > 0 && c.Request.Body != nil {
		if c.Request.ContentLength > sm.config.MaxBodyBytes {
			apperrors.Respond(c, apperrors.NewValidationError("request body too large"))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}
	c.Next()
}
