package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/identity"
)

// LoginInput contains the credentials for an admin login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP, logged only
}

// LoginResult contains the issued session and the account it belongs to
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	TokenType string
	User      AdminInfo
}

// AdminInfo is the public view of an admin account
type AdminInfo struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LogoutInput identifies the session to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration // Remaining lifetime of the token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

func toAdminInfo(u *identity.AdminUser) AdminInfo {
	return AdminInfo{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}
