package security

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds the standard hardening headers to every response
func (sm *SecurityMiddleware) SecurityHeaders(c *gin.Context) {
	// X-Frame-Options: Prevent clickjacking
	c.Header("X-Frame-Options", "DENY")

	// X-Content-Type-Options: Prevent MIME sniffing
	c.Header("X-Content-Type-Options", "nosniff")

	c.Header("X-XSS-Protection", "1; mode=block")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

	// HSTS only makes sense behind TLS
	if sm.config.EnableHSTS {
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}

	c.Next()
}
