package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Nikolyamba/authsystem/db"
	"github.com/Nikolyamba/authsystem/forms"
	"github.com/Nikolyamba/authsystem/kv"
	"github.com/Nikolyamba/authsystem/models"
	"golang.org/x/crypto/bcrypt"
)

// refreshKeyPrefix namespaces revocation entries in the key-value store.
const refreshKeyPrefix = "refresh_token:"

func refreshKey(jti string) string {
	return refreshKeyPrefix + jti
}

// AuthService orchestrates registration, login, token refresh, logout and
// request authentication. A refresh token is usable exactly while its jti has
// a live entry in the key-value store; the entry is written once at issuance
// with the refresh TTL, deleted on logout, and never rewritten — refresh does
// not rotate the token.
type AuthService struct {
	db     db.Database
	kv     kv.KeyValueStore
	tokens *TokenService
}

func NewAuthService(db db.Database, kv kv.KeyValueStore, tokens *TokenService) *AuthService {
	return &AuthService{
		db:     db,
		kv:     kv,
		tokens: tokens,
	}
}

// Register creates a new user and logs them in, returning the token pair.
func (s *AuthService) Register(ctx context.Context, form forms.RegisterForm) (models.User, models.Token, error) {
	var token models.Token

	// The form's eqfield binding already checks this; the service enforces it
	// again so the invariant does not depend on the transport layer.
	if form.Password != form.RepeatPassword {
		return models.User{}, token, ErrPasswordMismatch
	}

	exists, err := s.db.EmailExists(ctx, form.Email)
	if err != nil {
		slog.Error("failed to check if email exists", "error", err)
		return models.User{}, token, err
	}
	if exists {
		return models.User{}, token, ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return models.User{}, token, err
	}

	user, err := s.db.CreateUser(ctx, db.CreateUser{
		Name:       form.Name,
		Surname:    form.Surname,
		Patronymic: form.Patronymic,
		Email:      form.Email,
		PwdHash:    string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.User{}, token, ErrDuplicateEmail
		}
		slog.Error("failed to create user", "error", err)
		return models.User{}, token, err
	}

	token, err = s.issueTokens(ctx, user.ID)
	if err != nil {
		return models.User{}, token, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the credentials and returns the token pair. Unknown email
// and wrong password are indistinguishable to the caller; a deactivated
// account surfaces as ErrInactiveAccount for the boundary to merge.
func (s *AuthService) Login(ctx context.Context, form forms.LoginForm) (models.User, models.Token, error) {
	var token models.Token

	user, err := s.db.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.User{}, token, ErrInvalidCredentials
		}
		slog.Error("failed to look up user", "error", err)
		return models.User{}, token, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return models.User{}, token, ErrInvalidCredentials
	}

	if !user.IsActive {
		slog.Info("login rejected for deactivated account", "user_id", user.ID)
		return models.User{}, token, ErrInactiveAccount
	}

	token, err = s.issueTokens(ctx, user.ID)
	if err != nil {
		return models.User{}, token, err
	}

	return user, token, nil
}

// issueTokens mints the access/refresh pair and records the refresh jti in
// the store with a TTL equal to the refresh token's own validity window, so
// entry expiry and token expiry stay synchronized.
func (s *AuthService) issueTokens(ctx context.Context, userID models.UserID) (models.Token, error) {
	var token models.Token

	access, _, err := s.tokens.Issue(userID, KindAccess)
	if err != nil {
		return token, err
	}

	refresh, claims, err := s.tokens.Issue(userID, KindRefresh)
	if err != nil {
		return token, err
	}

	if err := s.kv.Set(ctx, refreshKey(claims.ID), userID.String(), s.tokens.RefreshTTL()); err != nil {
		slog.Error("failed to store refresh token", "error", err, "user_id", userID)
		return token, err
	}

	token.AccessToken = access
	token.RefreshToken = refresh
	return token, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is not rotated: it stays usable until its own expiry or an
// explicit logout.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return "", err
	}

	if claims.Kind != KindRefresh {
		return "", ErrWrongTokenType
	}

	subject, err := s.kv.Get(ctx, refreshKey(claims.ID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return "", ErrTokenRevoked
		}
		slog.Error("failed to look up refresh token", "error", err)
		return "", err
	}
	if subject != claims.Subject {
		slog.Warn("refresh token subject mismatch", "jti", claims.ID)
		return "", ErrTokenRevoked
	}

	userID, err := models.ParseUserID(claims.Subject)
	if err != nil {
		return "", ErrInvalidToken
	}

	access, _, err := s.tokens.Issue(userID, KindAccess)
	return access, err
}

// Logout revokes the refresh token by deleting its store entry. It is
// idempotent: a second logout, or a logout with an already-expired token,
// succeeds silently. Only store unavailability is an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		// Expired or otherwise undecodable: the entry is gone or unreachable
		// by jti anyway, which is exactly the revoked state.
		slog.Debug("logout with undecodable refresh token")
		return nil
	}

	if claims.Kind != KindRefresh || claims.ID == "" {
		return nil
	}

	if err := s.kv.Del(ctx, refreshKey(claims.ID)); err != nil {
		slog.Error("failed to delete refresh token", "error", err, "jti", claims.ID)
		return err
	}

	return nil
}

// Authenticate resolves an access token into the user it was issued for.
// Any failure — bad token, wrong kind, or a subject that no longer exists —
// surfaces as ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	claims, err := s.tokens.Decode(accessToken)
	if err != nil {
		return models.User{}, ErrUnauthorized
	}

	if claims.Kind != KindAccess {
		return models.User{}, ErrUnauthorized
	}

	userID, err := models.ParseUserID(claims.Subject)
	if err != nil {
		return models.User{}, ErrUnauthorized
	}

	user, err := s.db.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		slog.Error("failed to load user for access token", "error", err)
		return models.User{}, err
	}

	return user, nil
}
