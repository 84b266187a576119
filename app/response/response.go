// Package response writes the JSON envelopes shared by every handler
package response

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"protofolio/backend/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func OK(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, envelope{
		Success:   true,
		Message:   msg,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func statusOf(k auth.Kind) int {
	switch k {
	case auth.BadRequest, auth.Invalid:
		return http.StatusBadRequest
	case auth.Conflict:
		return http.StatusConflict
	case auth.NotFound:
		return http.StatusNotFound
	case auth.Unauthorized:
		return http.StatusUnauthorized
	case auth.RateLimited:
		return http.StatusTooManyRequests
	case auth.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error answers with the status for err's kind. Internal errors are logged and
// their details never reach the client.
func Error(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	var authErr *auth.Error
	if !errors.As(err, &authErr) || authErr.Kind == auth.Internal {
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID), zap.String("path", c.FullPath()))

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	if authErr.Kind == auth.Unavailable {
		zap.L().Warn("Dependency unavailable", zap.Error(err), zap.String("requestID", requestID))
	}

	if authErr.RetryAfter > 0 {
		secs := int((authErr.RetryAfter + time.Second - 1) / time.Second)
		c.Header("Retry-After", strconv.Itoa(secs))
	}

	c.AbortWithStatusJSON(statusOf(authErr.Kind), gin.H{
		"error":     authErr.Msg,
		"requestID": requestID,
	})
}

// Bind decodes the JSON body into v and answers on failure
func Bind(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	requestID := c.GetString("requestID")

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "Request body size exceeds limit",
			"requestID": requestID,
		})
		return false
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":     "Invalid request body",
		"requestID": requestID,
	})

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
	return false
}

// Fail answers with a plain client error
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"requestID": c.GetString("requestID"),
	})
}
