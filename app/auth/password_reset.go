package auth

import (
	"net/http"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"
	"protofolio/backend/pkg/validators"

	"github.com/gin-gonic/gin"
)

type resetRequestBody struct {
	Email string `json:"email"`
}

type resetConfirmBody struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func PasswordResetRequest(c *gin.Context, d *internal.Deps) {
	var data resetRequestBody
	if !response.Bind(c, &data) {
		return
	}

	if data.Email == "" {
		response.Fail(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if err := d.Auth.RequestPasswordReset(c.Request.Context(), data.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset email sent!", nil)
}

func PasswordResetConfirm(c *gin.Context, d *internal.Deps) {
	var data resetConfirmBody
	if !response.Bind(c, &data) {
		return
	}

	if data.Email == "" || data.Token == "" {
		response.Fail(c, http.StatusBadRequest, "Email and token fields can't be empty")
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := d.Auth.ConfirmPasswordReset(c.Request.Context(), data.Email, data.Token, data.NewPassword); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset successful!", nil)
}
