package middleware

import (
	"net/http"

	"podcasthub-backend/internal/shared"
	"podcasthub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware checks if user has admin role (must run after AuthMiddleware)
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserID); !ok {
			response.AbortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if c.GetString(ContextRole) != shared.RoleAdmin {
			response.AbortWithError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: admin role required")
			return
		}

		c.Next()
	}
}
