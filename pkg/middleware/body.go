package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimiter rejects bodies over maxBytes. Bodies without a
// Content-Length are cut off while the handler reads them.
func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fast reject for legit requests
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "Request body size exceeds limit",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
