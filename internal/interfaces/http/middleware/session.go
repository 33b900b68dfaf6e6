package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/infrastructure/auth"
	"github.com/mediaassoc/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Keys RequireSession stores the admin's claims under
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"
	JWTRoleKey   = "jwt_role"
)

const bearerPrefix = "Bearer "

// SessionConfig configures RequireSession
type SessionConfig struct {
	Tokens *auth.JWTService
	// Revoked holds logged-out token IDs; nil skips the check
	Revoked auth.TokenBlacklist
	// CookieName is read when the request has no Authorization header
	CookieName string
	Logger     *zap.Logger
}

var (
	errNoCredentials   = errors.New("no session token")
	errMalformedBearer = errors.New("authorization header is not a bearer token")
)

// sessionFailures maps validation errors to the error envelope. Anything not
// listed is answered as ERR_UNAUTHORIZED.
var sessionFailures = []struct {
	err     error
	code    string
	message string
}{
	{auth.ErrExpiredToken, "ERR_TOKEN_EXPIRED", "Token has expired"},
	{auth.ErrTokenBlacklisted, "ERR_TOKEN_REVOKED", "Token has been revoked"},
	{auth.ErrTokenNotYetValid, "ERR_TOKEN_INVALID", "Token is not yet valid"},
	{auth.ErrInvalidToken, "ERR_TOKEN_INVALID", "Invalid token"},
	{auth.ErrInvalidClaims, "ERR_TOKEN_INVALID", "Invalid token"},
	{auth.ErrMissingUserID, "ERR_TOKEN_INVALID", "Invalid token"},
	{errMalformedBearer, "ERR_TOKEN_INVALID", "Invalid token"},
}

// RequireSession admits requests that carry a valid admin session, either as
// a bearer token or in the session cookie. The claims are stored on the gin
// context and the admin's ID is added to the request logger.
//
// When the blacklist cannot be reached the request is let through; an outage
// of the revocation store must not lock every admin out.
func RequireSession(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		claims, err := sessionClaims(c, cfg, log)
		if err != nil {
			rejectSession(c, log, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTRoleKey, claims.Role)
		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func sessionClaims(c *gin.Context, cfg SessionConfig, log *zap.Logger) (*auth.Claims, error) {
	token, err := sessionToken(c, cfg.CookieName)
	if err != nil {
		return nil, err
	}
	claims, err := cfg.Tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if cfg.Revoked == nil || claims.ID == "" {
		return claims, nil
	}

	revoked, err := cfg.Revoked.IsBlacklisted(c.Request.Context(), claims.ID)
	switch {
	case err != nil:
		log.Error("Session blacklist unavailable", zap.String("jti", claims.ID), zap.Error(err))
	case revoked:
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

// sessionToken prefers the Authorization header over the cookie
func sessionToken(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok {
			return "", errMalformedBearer
		}
		if token = strings.TrimSpace(token); token == "" {
			return "", errNoCredentials
		}
		return token, nil
	}
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			return token, nil
		}
	}
	return "", errNoCredentials
}

func rejectSession(c *gin.Context, log *zap.Logger, err error) {
	code, message := "ERR_UNAUTHORIZED", "Authentication required"
	for _, f := range sessionFailures {
		if errors.Is(err, f.err) {
			code, message = f.code, f.message
			break
		}
	}
	log.Warn("Session rejected",
		zap.String("path", c.Request.URL.Path),
		zap.String("code", code),
		zap.Error(err),
	)
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// RequireRole lets through sessions whose role is listed. It must run after
// RequireSession.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, GetJWTRole(c)) {
			abortWithError(c, http.StatusForbidden, "ERR_FORBIDDEN", "Insufficient role")
			return
		}
		c.Next()
	}
}

// GetJWTClaims returns the session claims, nil outside RequireSession
func GetJWTClaims(c *gin.Context) *auth.Claims {
	claims, _ := c.Get(JWTClaimsKey)
	typed, _ := claims.(*auth.Claims)
	return typed
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}
