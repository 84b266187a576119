package auth

import (
	"crypto/subtle"
	"net/http"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"
	"protofolio/backend/internal/oauth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GoogleStart redirects the browser to Google's consent screen
func GoogleStart(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	state, err := oauth.NewState()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to generate oauth state", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Lax so the cookie survives the redirect back from Google
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateMaxAge, statePath, "", d.Config.App.Production(), true)
	c.Redirect(http.StatusTemporaryRedirect, d.Google.AuthCodeURL(state))
}

// GoogleCallback finishes the code flow and signs the user in
func GoogleCallback(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	want, err := c.Cookie(stateCookie)
	got := c.Query("state")
	if err != nil || want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		response.Fail(c, http.StatusBadRequest, "Invalid oauth state")
		return
	}

	c.SetCookie(stateCookie, "", -1, statePath, "", d.Config.App.Production(), true)

	profile, err := d.Google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "Google sign-in failed")

		zap.L().Warn("Google code exchange failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user, tokens, err := d.Auth.ValidateOAuthIdentity(c.Request.Context(), *profile)
	if err != nil {
		response.Error(c, err)
		return
	}

	setRefreshCookie(c, d, tokens.RefreshToken)
	response.OK(c, "success", gin.H{
		"user":         user,
		"access_token": tokens.AccessToken,
	})
}
