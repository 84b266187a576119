package auth

import (
	"protofolio/backend/app/response"
	"protofolio/backend/internal"

	"github.com/gin-gonic/gin"
)

type logoutBody struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

func Logout(c *gin.Context, d *internal.Deps) {
	var data logoutBody
	if !response.Bind(c, &data) {
		return
	}

	token := data.RefreshToken
	if token == "" {
		token, _ = c.Cookie(RefreshCookie)
	}

	if err := d.Auth.Logout(c.Request.Context(), data.Email, token); err != nil {
		response.Error(c, err)
		return
	}

	clearRefreshCookie(c, d)
	response.OK(c, "Logged out successfully", nil)
}
