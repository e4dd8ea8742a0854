package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Nikolyamba/authsystem/forms"
	"github.com/Nikolyamba/authsystem/models"
	"github.com/Nikolyamba/authsystem/service"
	"github.com/gin-gonic/gin"
)

// UserController handles registration, login and logout requests
type UserController struct {
	auth *service.AuthService
}

// NewUserController creates and returns a new UserController instance
func NewUserController(auth *service.AuthService) *UserController {
	return &UserController{auth: auth}
}

var userForm = new(forms.UserForm)

// Register handles new user registration, validates the input, creates the
// account and returns the token pair
func (ctrl UserController) Register(c *gin.Context) {
	var registerForm forms.RegisterForm

	if err := c.ShouldBindJSON(&registerForm); err != nil {
		message := userForm.Register(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
		return
	}

	_, token, err := ctrl.auth.Register(c.Request.Context(), registerForm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "This email is already in use"})
		case errors.Is(err, service.ErrPasswordMismatch):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "The passwords do not match"})
		default:
			abortInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payload": token})
}

// Login authenticates the credentials and returns the token pair. All
// credential failures produce the same message so accounts cannot be
// enumerated
func (ctrl UserController) Login(c *gin.Context) {
	var loginForm forms.LoginForm

	if err := c.ShouldBindJSON(&loginForm); err != nil {
		message := userForm.Login(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
		return
	}

	_, token, err := ctrl.auth.Login(c.Request.Context(), loginForm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInactiveAccount):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email or password"})
		default:
			abortInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payload": token})
}

// Logout revokes the submitted refresh token. The caller must already hold a
// valid access token (enforced by the auth middleware). Logging out twice
// with the same token succeeds both times
func (ctrl UserController) Logout(c *gin.Context) {
	var tokenForm forms.Token

	if err := c.ShouldBind(&tokenForm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Refresh token is required"})
		return
	}

	if err := ctrl.auth.Logout(c.Request.Context(), tokenForm.RefreshToken); err != nil {
		abortInternal(c, err)
		return
	}

	slog.Info("user logged out", "user_id", getUser(c).ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully logged out"})
}

// getUser returns the authenticated user set by the auth middleware
func getUser(c *gin.Context) models.User {
	// MustGet panics if the middleware did not run; protected routes always
	// pass through it first.
	return c.MustGet(userContextKey).(models.User)
}
