package admin

import (
	"net/http"

	"protofolio/backend/app/response"
	"protofolio/backend/internal"
	"protofolio/backend/internal/auth"
	"protofolio/backend/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createUserBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// Only the fields an administrator may change. Nil leaves the column alone.
type updateUserBody struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Verified *bool   `json:"verified"`
}

func internalError(c *gin.Context, msg string, err error) {
	response.Fail(c, http.StatusInternalServerError, "Internal server error")

	zap.L().Error(msg, zap.Error(err), zap.String("requestID", c.GetString("requestID")))
}

// UsersFetch pages through all accounts, oldest first
func UsersFetch(c *gin.Context, d *internal.Deps) {
	take, skip, ok := page(c)
	if !ok {
		return
	}

	users, err := d.Store.Users(c.Request.Context(), take, skip)
	if err != nil {
		internalError(c, "Failed to fetch users", err)
		return
	}

	response.OK(c, "", users)
}

func UserFetch(c *gin.Context, d *internal.Deps) {
	u, err := d.Store.UserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "Failed to fetch user", err)
		return
	}

	if u == nil {
		response.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	response.OK(c, "", u)
}

// UserCreate adds a local account without email verification
func UserCreate(c *gin.Context, d *internal.Deps) {
	var data createUserBody
	if !response.Bind(c, &data) {
		return
	}

	email := validators.NormalizeEmail(data.Email)
	if err := validators.EmailValidator(email); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := d.Auth.CreateAccount(c.Request.Context(), auth.NewAccount{
		Email:    email,
		Password: data.Password,
		Name:     data.Name,
		Role:     data.Role,
		Verified: data.Verified,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User created", u)
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	var data updateUserBody
	if !response.Bind(c, &data) {
		return
	}

	fields := map[string]any{}
	if data.Name != nil {
		fields["name"] = *data.Name
	}
	if data.Role != nil {
		if !auth.ValidRole(*data.Role) {
			response.Fail(c, http.StatusBadRequest, "Invalid role")
			return
		}

		fields["role"] = *data.Role
	}
	if data.Verified != nil {
		fields["verified"] = *data.Verified
	}

	if len(fields) == 0 {
		response.Fail(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()

	u, err := d.Store.UserByID(ctx, id)
	if err != nil {
		internalError(c, "Failed to fetch user", err)
		return
	}

	if u == nil {
		response.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	if err := d.Store.UpdateUserByID(ctx, id, fields); err != nil {
		internalError(c, "Failed to update user", err)
		return
	}

	u, err = d.Store.UserByID(ctx, id)
	if err != nil {
		internalError(c, "Failed to fetch user", err)
		return
	}

	response.OK(c, "User updated", u)
}

// UserDelete removes an account and its cart. Admins can't delete themselves.
func UserDelete(c *gin.Context, d *internal.Deps) {
	id := c.Param("id")

	if id == c.GetString("userID") {
		response.Fail(c, http.StatusBadRequest, "You can't delete your own account")
		return
	}

	deleted, err := d.Store.DeleteUser(c.Request.Context(), id)
	if err != nil {
		internalError(c, "Failed to delete user", err)
		return
	}

	if !deleted {
		response.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	response.OK(c, "User deleted", nil)
}
