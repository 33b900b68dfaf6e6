package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/mediaassoc/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the permission level of an admin account
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// Password cost for bcrypt
const bcryptCost = 12

// AdminUser is a back-office account allowed to review members and manage content
type AdminUser struct {
	shared.BaseEntity
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewAdminUser creates an active admin account with a hashed password
func NewAdminUser(email, name, password string, role Role) (*AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if !role.IsValid() {
		return nil, shared.InvalidInput("unknown role")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}

	return &AdminUser{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// SetPassword replaces the password hash
func (u *AdminUser) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *AdminUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanLogin returns true if the account may start a session
func (u *AdminUser) CanLogin() bool {
	return u.IsActive
}

// RecordLogin stamps the last successful login
func (u *AdminUser) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Deactivate blocks further logins
func (u *AdminUser) Deactivate() {
	u.IsActive = false
	u.Touch()
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt ignores everything past 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
