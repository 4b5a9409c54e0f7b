package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stream-queue-system/pkg/jwt"
	"github.com/stream-queue-system/pkg/redis"
)

// AuthMiddleware resolves the session credential to a user identity and
// aborts with 403 when there is none. Mutating queue operations hang off
// this one.
func AuthMiddleware(sessions *redis.SessionStore) gin.HandlerFunc {
	return AuthMiddlewareWithStatus(sessions, http.StatusForbidden)
}

// AuthMiddlewareWithStatus is AuthMiddleware with a configurable abort
// status, for routes whose contract wants 401 instead of 403.
func AuthMiddlewareWithStatus(sessions *redis.SessionStore, abortStatus int) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Session token from cookie, or query param as a fallback
		tokenString, _ := c.Cookie("auth_token")
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(abortStatus, gin.H{"error": "Unauthenticated"})
			return
		}

		// Validate token
		claims, err := jwt.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(abortStatus, gin.H{"error": "Invalid token"})
			return
		}

		// The session must still exist server-side; logout revokes it
		session, err := sessions.GetSession(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(abortStatus, gin.H{"error": "Session not found"})
			return
		}

		if time.Now().After(session.ExpiresAt) {
			c.AbortWithStatusJSON(abortStatus, gin.H{"error": "Session expired"})
			return
		}

		// Set user identity in context
		c.Set("user_id", claims.UserID)
		c.Set("user_email", session.Email)
		c.Next()
	}
}
