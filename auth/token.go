package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the JWT payload issued by TokenManager.
type Claims struct {
	TokenType string         `json:"token_type"`
	Roles     []string       `json:"roles,omitempty"`
	Custom    map[string]any `json:"custom,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens. Access tokens carry
// roles and custom claims, refresh tokens only the subject.
type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &TokenManager{cfg: cfg}, nil
}

func (m *TokenManager) GenerateAccessToken(subject string, roles []string, custom map[string]any) (string, error) {
	return m.sign(subject, TokenTypeAccess, roles, custom, m.cfg.AccessTTL)
}

func (m *TokenManager) GenerateRefreshToken(subject string) (string, error) {
	return m.sign(subject, TokenTypeRefresh, nil, nil, m.cfg.RefreshTTL)
}

func (m *TokenManager) sign(subject, tokenType string, roles []string, custom map[string]any, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		Roles:     roles,
		Custom:    custom,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.Secret))
}

// VerifyToken parses and validates signature, expiry and issuer.
func (m *TokenManager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyAccessToken rejects refresh tokens passed as access tokens.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token with the same subject.
func (m *TokenManager) RefreshAccessToken(refreshToken string, roles []string, custom map[string]any) (string, error) {
	claims, err := m.VerifyToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", ErrWrongTokenType
	}
	return m.GenerateAccessToken(claims.Subject, roles, custom)
}
