// Package auth issues admin session tokens and tracks revoked ones.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

const defaultSessionLifetime = 24 * time.Hour

// Claims of an admin session. ID is the JTI the blacklist is keyed by.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetRemainingTTL is how long the token stays valid, zero once expired
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// Session is a signed token as handed to the client
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"`
}

type GenerateTokenInput struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// JWTService signs HS256 session tokens and validates them
type JWTService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	parser   *jwt.Parser
	now      func() time.Time
}

// NewJWTService signs with cfg.Secret. When an issuer is configured,
// tokens from any other issuer or audience are refused.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	s := &JWTService{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.AccessTokenExpiration,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
	if s.lifetime <= 0 {
		s.lifetime = defaultSessionLifetime
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.issuer))
	}
	s.parser = jwt.NewParser(opts...)
	return s
}

// GenerateToken signs a session for one admin with a fresh JTI
func (s *JWTService) GenerateToken(input GenerateTokenInput) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)
	subject := input.UserID.String()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: subject,
		Email:  input.Email,
		Role:   input.Role,
	}
	if s.issuer != "" {
		claims.Audience = jwt.ClaimStrings{s.issuer}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// ValidateToken checks signature, time window and issuer, and requires a
// JTI and a user ID.
func (s *JWTService) ValidateToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	case claims.UserID == "":
		return nil, ErrMissingUserID
	case claims.ID == "":
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Lifetime of newly issued sessions
func (s *JWTService) Lifetime() time.Duration {
	return s.lifetime
}
