package user

import (
	"net/http"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"
	"protofolio/backend/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFetch returns the public profile of the signed in user
func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")
	userID := c.GetString("userID")

	u, err := d.Store.UserByID(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if u == nil {
		response.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	response.OK(c, "", auth.ViewOf(u))
}
