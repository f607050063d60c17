// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/pkg/session"
)

const sessionHeader = "X-Session-Token"

// Session resolves the storefront session for a request. A valid token
// in the X-Session-Token header binds the request to its session; an
// absent or invalid token gets a freshly issued session whose token is
// returned in the response header for the client to keep.
func Session(mgr *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader(sessionHeader); token != "" {
			if sessionID, err := mgr.Validate(token); err == nil {
				c.Set("session_id", sessionID)
				c.Next()
				return
			}
		}

		sessionID, token, err := mgr.Issue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to establish session",
			})
			c.Abort()
			return
		}

		c.Set("session_id", sessionID)
		c.Header(sessionHeader, token)
		c.Next()
	}
}

// GetSessionIDFromContext extracts the session ID from gin context
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}
