package auth

import (
	"protofolio/backend/app/response"
	"protofolio/backend/internal"

	"github.com/gin-gonic/gin"
)

type refreshBody struct {
	Email string `json:"email"`
}

// Refresh reads the refresh token from its cookie only
func Refresh(c *gin.Context, d *internal.Deps) {
	var data refreshBody
	if !response.Bind(c, &data) {
		return
	}

	token, _ := c.Cookie(RefreshCookie)

	tokens, err := d.Auth.RefreshAccessToken(c.Request.Context(), data.Email, token)
	if err != nil {
		response.Error(c, err)
		return
	}

	if tokens.RefreshToken != "" {
		setRefreshCookie(c, d, tokens.RefreshToken)
	}

	response.OK(c, "Token refreshed successfully", gin.H{
		"access_token": tokens.AccessToken,
	})
}
