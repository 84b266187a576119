// Package auth contains the account endpoints under /api/auth
package auth

import (
	"net/http"

	"protofolio/backend/internal"

	"github.com/gin-gonic/gin"
)

const (
	// Sent to both /refresh and /logout
	RefreshCookie = "refreshToken"
	RefreshPath   = "/api/auth"

	stateCookie = "oauth_state"
	statePath   = "/api/auth/callback/google"
	stateMaxAge = 10 * 60
)

func setRefreshCookie(c *gin.Context, d *internal.Deps, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookie, token, int(d.Config.JWT.RefreshTTL.Seconds()), RefreshPath, "", d.Config.App.Production(), true)
}

func clearRefreshCookie(c *gin.Context, d *internal.Deps) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookie, "", -1, RefreshPath, "", d.Config.App.Production(), true)
}
