package middleware

import (
	"context"
	"net/http"
	"strings"

	"protofolio/backend/internal/auth"
	"protofolio/backend/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(raw, typ string) (*auth.Claims, error)
}

type UserFinder interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// NewJWTMiddleware accepts access tokens from the Authorization header and
// sets userID, email and role for the handlers after it
func NewJWTMiddleware(v TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "No authorization token",
				"requestID": requestID,
			})
			return
		}

		claims, err := v.Verify(tokenStr, auth.TokenAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization token invalid",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to parse token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// The account may have been removed since the token was issued
		user, err := users.UserByID(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		if !user.Verified {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Please verify your account before using the service",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Set("role", user.Role)
		c.Next()
	}
}
