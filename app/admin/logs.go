// Package admin contains endpoints restricted to administrators
package admin

import (
	"net/http"
	"strconv"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultTake = 20
	maxTake     = 100
)

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

// page reads take and skip from the query, answering 400 when either is bad.
// take is capped at maxTake.
func page(c *gin.Context) (take, skip int, ok bool) {
	take, ok = queryInt(c, "take", defaultTake)
	if !ok || take == 0 {
		response.Fail(c, http.StatusBadRequest, "take must be a positive number")
		return 0, 0, false
	}

	skip, ok = queryInt(c, "skip", 0)
	if !ok {
		response.Fail(c, http.StatusBadRequest, "skip must be a non-negative number")
		return 0, 0, false
	}

	return min(take, maxTake), skip, true
}

// LogsFetch pages through persisted error logs, newest first
func LogsFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	take, skip, ok := page(c)
	if !ok {
		return
	}

	logs, err := d.Store.Logs(c.Request.Context(), take, skip)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch logs", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	response.OK(c, "", logs)
}
