package service

import "errors"

var (
	// ErrDuplicateEmail is returned by Register when the email is already in use.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrPasswordMismatch is returned by Register when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials covers unknown email and wrong password. The two
	// cases are never distinguished to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactiveAccount is returned by Login for a deactivated user. The HTTP
	// boundary merges it into the generic credentials message so account state
	// does not leak.
	ErrInactiveAccount = errors.New("account is deactivated")
	// ErrInvalidToken covers forged, malformed and expired tokens alike.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when an access token is submitted where a
	// refresh token is expected.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrTokenRevoked is returned when a refresh token has no live revocation
	// entry: logged out, or naturally expired from the store.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUnauthorized is the single failure surfaced by the auth gate.
	ErrUnauthorized = errors.New("unauthorized")
)
