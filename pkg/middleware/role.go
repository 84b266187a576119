package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after the JWT middleware
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString("role")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "You don't have access to this resource",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
