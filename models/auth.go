package models

// Token represents the JWT token pair returned to clients after a
// successful registration or login
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
