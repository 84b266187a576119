package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type response struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

type TurnstileConfig struct {
	Enabled     bool
	SecretToken string
	// Defaults to Cloudflare's siteverify endpoint
	VerifyURL string
}

// NewTurnstileMiddleware rejects requests whose TurnstileToken header does
// not pass Cloudflare's check. It is a no-op when disabled.
func NewTurnstileMiddleware(cfg TurnstileConfig) gin.HandlerFunc {
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = turnstileVerifyURL
	}

	client := &http.Client{Timeout: 10 * time.Second}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		requestID := c.GetString("requestID")

		token := c.Request.Header.Get("TurnstileToken")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Missing or invalid turnstile token",
				"requestID": requestID,
			})
			return
		}

		jsonBody, _ := json.Marshal(gin.H{
			"secret":   cfg.SecretToken,
			"response": token,
			"remoteip": c.ClientIP(),
		})

		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, cfg.VerifyURL, bytes.NewReader(jsonBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":     "Failed to verify turnstile token",
				"requestID": requestID,
			})

			zap.L().Error("Turnstile request failed", zap.Error(err), zap.String("requestID", requestID))
			return
		}
		defer resp.Body.Close()

		var res response
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil || !res.Success {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})

			zap.L().Debug("Turnstile check failed", zap.Strings("error_codes", res.ErrorCodes), zap.String("requestID", requestID))
			return
		}

		c.Next()
	}
}
