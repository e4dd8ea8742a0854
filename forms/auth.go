package forms

// Token carries the refresh token submitted to the logout and refresh endpoints
type Token struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token" binding:"required"`
}
