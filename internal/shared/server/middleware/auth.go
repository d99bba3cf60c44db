package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/auth"
	"legal-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	userRoleKey  = "userRole"
)

// Auth validates JWTs or guest headers and stores identity in context.
// Health, metrics, registration and login are exempt.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		if path == "/api/v1/auth/register" ||
			path == "/api/v1/auth/login" ||
			strings.HasPrefix(path, "/api/v1/health") ||
			strings.HasPrefix(path, "/api/v1/metrics") {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			if token == "" {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			claims, err := auth.VerifyJWT(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}

			c.Set(userIDKey, claims.Subject)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			if claims.Role != "" {
				c.Set(userRoleKey, claims.Role)
			}
			c.Set("isGuest", false)
			c.Next()
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(userIDKey, "guest:"+guestID)
		c.Set("isGuest", true)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
