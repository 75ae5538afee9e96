package middleware

import (
	"net/http"
	"strings"

	"reportam/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares
const (
	ContextAdminID = "adminID"
	ContextClaims  = "claims"
)

// AdminAuthMiddleware authenticates administrator bearer tokens. Requests
// without an Authorization header pass through as anonymous; a header that is
// present but malformed or invalid is rejected with 401.
func AdminAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateAdminToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Set admin info in context for handlers to use
		c.Set(ContextClaims, claims)
		c.Set(ContextAdminID, claims.AdminID)

		c.Next()
	}
}

// RequireAdmin rejects requests that were not authenticated by AdminAuthMiddleware
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := AdminID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "admin authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminID returns the authenticated administrator of the request, if any
func AdminID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextAdminID)
	return id, id != ""
}
