package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/application/identity"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/interfaces/http/middleware"
)

// AuthHandler signs board members in and out. The session token travels in
// an HttpOnly cookie for the admin UI and in the body for API clients.
type AuthHandler struct {
	BaseHandler
	sessions *identity.AuthService
	cookie   config.CookieConfig
}

func NewAuthHandler(sessions *identity.AuthService, cookie config.CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "ma_session"
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

// Login godoc
// @ID           loginAuth
// @Summary      Admin login
// @Description  Authenticate an admin with email and password. The session token is returned in the body and set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	http.SetCookie(c.Writer, h.sessionCookie(session.Token, time.Until(session.ExpiresAt)))
	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken: session.Token,
			ExpiresAt:   session.ExpiresAt,
			TokenType:   session.TokenType,
		},
		User: session.User,
	})
}

// Logout godoc
// @ID           logoutAuth
// @Summary      Admin logout
// @Description  Revoke the current session token and clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[LogoutResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	adminID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Session does not name an admin")
		return
	}

	// the cookie goes even if revocation fails; the token still expires on its own
	http.SetCookie(c.Writer, h.sessionCookie("", 0))
	if err := h.sessions.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:   adminID,
		TokenJTI: claims.ID,
		TTL:      claims.GetRemainingTTL(),
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LogoutResponse{Message: "Logged out successfully"})
}

// GetCurrentUser godoc
// @ID           getCurrentUserAuth
// @Summary      Get current admin
// @Description  Get the signed-in admin's account
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[CurrentUserResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	admin, err := h.sessions.Me(c.Request.Context(), adminID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CurrentUserResponse{User: *admin})
}

// ChangePassword godoc
// @ID           changePasswordAuth
// @Summary      Change password
// @Description  Change the signed-in admin's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Password change request"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.sessions.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		UserID:      adminID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed successfully"})
}

// sessionCookie carries token for ttl. A zero ttl expires the cookie.
func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(h.cookie.SameSite),
	}
	if seconds := int(ttl / time.Second); seconds > 0 {
		cookie.MaxAge = seconds
		cookie.Expires = time.Now().Add(ttl)
	} else {
		cookie.MaxAge = -1
	}
	return cookie
}

var sameSiteModes = map[string]http.SameSite{
	"strict": http.SameSiteStrictMode,
	"none":   http.SameSiteNoneMode,
}

// parseSameSite falls back to Lax for anything it does not recognise
func parseSameSite(mode string) http.SameSite {
	if m, ok := sameSiteModes[strings.ToLower(mode)]; ok {
		return m
	}
	return http.SameSiteLaxMode
}
