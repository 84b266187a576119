package auth

import (
	"net/http"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"
	"protofolio/backend/pkg/util"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if !response.Bind(c, &data) {
		return
	}

	if data.Email == "" {
		response.Fail(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	tokens, err := d.Auth.Login(c.Request.Context(), data.Email, data.Password, util.ClientIP(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	setRefreshCookie(c, d, tokens.RefreshToken)
	response.OK(c, "Logged in successfully", gin.H{
		"access_token": tokens.AccessToken,
	})
}
