package auth

import (
	"net/http"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"
	"protofolio/backend/pkg/util"
	"protofolio/backend/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type halfRegisterBody struct {
	Email string `json:"email"`
}

type fullRegisterBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type completeRegisterBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HalfRegister mails a verification code to a new address
func HalfRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data halfRegisterBody
	if !response.Bind(c, &data) {
		return
	}

	email := validators.NormalizeEmail(data.Email)
	if err := validators.EmailValidator(email); err != nil {
		zap.L().Debug("Invalid email", zap.Error(err), zap.String("requestID", requestID))

		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := d.Auth.RequestEmailVerification(c.Request.Context(), email, util.ClientIP(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Email sent!", nil)
}

// FullRegister checks the mailed code and creates the account
func FullRegister(c *gin.Context, d *internal.Deps) {
	var data fullRegisterBody
	if !response.Bind(c, &data) {
		return
	}

	if data.Email == "" || data.Code == "" {
		response.Fail(c, http.StatusBadRequest, "Email and code fields can't be empty")
		return
	}

	if err := d.Auth.CompleteEmailVerification(c.Request.Context(), data.Email, data.Code, util.ClientIP(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Code verified successfully", nil)
}

// CompleteRegister sets the password and signs the user in
func CompleteRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data completeRegisterBody
	if !response.Bind(c, &data) {
		return
	}

	if data.Email == "" {
		response.Fail(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		zap.L().Debug("Invalid password", zap.Error(err), zap.String("requestID", requestID))

		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := d.Auth.FinishRegistration(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	setRefreshCookie(c, d, tokens.RefreshToken)
	response.OK(c, "Registration complete", gin.H{
		"access_token": tokens.AccessToken,
	})
}
