package root

import (
	"net/http"

	"protofolio/backend/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Heartbeat answers 200 while the database is reachable and 503 otherwise
func Heartbeat(c *gin.Context, d *internal.Deps) {
	if err := d.Store.Ping(c.Request.Context()); err != nil {
		zap.L().Warn("Heartbeat failed", zap.Error(err), zap.String("requestID", c.GetString("requestID")))

		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.Status(http.StatusOK)
}
