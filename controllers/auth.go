package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Nikolyamba/authsystem/forms"
	"github.com/Nikolyamba/authsystem/kv"
	"github.com/Nikolyamba/authsystem/service"
	"github.com/gin-gonic/gin"
)

// userContextKey is the gin context key under which the auth middleware
// stores the authenticated user.
const userContextKey = "user"

// AuthController handles token refresh and request authentication
type AuthController struct {
	auth *service.AuthService
}

// NewAuthController creates and returns a new AuthController instance
func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// RequireAuth is the middleware every protected route passes through. It
// resolves the bearer access token into a user and aborts with 401 on any
// failure
func (ctrl AuthController) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Please login first"})
			return
		}

		user, err := ctrl.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Please login first"})
				return
			}
			abortInternal(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token
func (ctrl AuthController) Refresh(c *gin.Context) {
	var tokenForm forms.Token

	if err := c.ShouldBind(&tokenForm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Refresh token is required"})
		return
	}

	access, err := ctrl.auth.Refresh(c.Request.Context(), tokenForm.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrWrongTokenType),
			errors.Is(err, service.ErrTokenRevoked):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid authorization, please login again"})
		default:
			abortInternal(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "access_token": access})
}

// abortInternal maps infrastructure failures to 503 and everything else to
// 500. Store unavailability is never conflated with a token error
func abortInternal(c *gin.Context, err error) {
	if errors.Is(err, kv.ErrUnavailable) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Service temporarily unavailable"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong, please try again later"})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
