package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Nikolyamba/authsystem/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two credentials the service issues.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the signed payload of every token: the user id as subject, the
// token kind, the expiry, and — for refresh tokens only — a unique jti used
// as the revocation key. Access tokens never carry a jti.
type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService is the codec for signed tokens. It is stateless: issuing and
// decoding touch neither the database nor the key-value store.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService signing with the given HS256 secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshTTL returns the refresh token validity window. Revocation entries
// are stored with exactly this TTL so the entry never outlives the token.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Issue serializes and signs a token of the given kind for the user. For
// refresh tokens a fresh uuid jti is minted per issuance.
func (s *TokenService) Issue(userID models.UserID, kind TokenKind) (string, *Claims, error) {
	ttl := s.accessTTL
	if kind == KindRefresh {
		ttl = s.refreshTTL
	}

	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if kind == KindRefresh {
		claims.ID = uuid.NewString()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		slog.Error("failed to sign token", "error", err, "kind", kind, "user_id", userID)
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, claims, nil
}

// Decode verifies the signature, structure and expiry of a token. Every
// failure collapses to ErrInvalidToken so the caller cannot tell a forged
// token from an expired one; the actual cause is only logged.
func (s *TokenService) Decode(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		slog.Debug("token rejected", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		slog.Debug("token rejected", "error", "invalid claims")
		return nil, ErrInvalidToken
	}

	switch claims.Kind {
	case KindAccess, KindRefresh:
	default:
		slog.Debug("token rejected", "error", "unknown kind")
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		slog.Debug("token rejected", "error", "missing claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
