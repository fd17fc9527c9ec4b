package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const nonceKey = "csp-nonce"

// apiPolicy applies to JSON and CSV responses, which never load subresources
const apiPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

// GenerateNonce generates a cryptographically secure random nonce
func GenerateNonce() (string, error) {
	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(nonceBytes), nil
}

// CSPMiddleware sets a Content-Security-Policy on every response. Paths under
// any of uiPrefixes (the swagger UI) get a nonce-based policy that lets the
// bundled scripts and styles load.
func (sm *SecurityMiddleware) CSPMiddleware(uiPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy := apiPolicy

		for _, prefix := range uiPrefixes {
			if !strings.HasPrefix(c.Request.URL.Path, prefix) {
				continue
			}
			nonce, err := GenerateNonce()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Set(nonceKey, nonce)
			policy = buildUIPolicy(nonce)
			break
		}

		c.Header("Content-Security-Policy", policy)
		if sm.config.CSPReportURI != "" {
			c.Header("Content-Security-Policy-Report-Only", policy+"; report-uri "+sm.config.CSPReportURI)
		}

		c.Next()
	}
}

// GetNonce retrieves the nonce from the Gin context
func GetNonce(c *gin.Context) string {
	if nonce, exists := c.Get(nonceKey); exists {
		if nonceStr, ok := nonce.(string); ok {
			return nonceStr
		}
	}
	return ""
}

func buildUIPolicy(nonce string) string {
	return fmt.Sprintf(
		"default-src 'self'; "+
			"script-src 'self' 'nonce-%s' 'unsafe-inline'; "+
			"style-src 'self' 'nonce-%s' 'unsafe-inline'; "+
			"img-src 'self' data:; "+
			"connect-src 'self'; "+
			"frame-ancestors 'none'; "+
			"base-uri 'self'",
		nonce, nonce,
	)
}
