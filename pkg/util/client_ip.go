package util

import "github.com/gin-gonic/gin"

// ClientIP returns the address used to key lockouts. gin already honours
// the trusted proxy list, the fallback only matters for synthetic requests.
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	return "unknown"
}
