package models

import (
	"time"

	"github.com/mediaassoc/backend/internal/domain/identity"
)

// AdminUserModel is the persistence model for the AdminUser domain entity.
type AdminUserModel struct {
	BaseModel
	Email        string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string        `gorm:"type:varchar(200);not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	IsActive     bool          `gorm:"not null"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AdminUserModel) TableName() string {
	return "admin_users"
}

// ToDomain converts the persistence model to a domain AdminUser entity.
func (m *AdminUserModel) ToDomain() *identity.AdminUser {
	return &identity.AdminUser{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain AdminUser entity.
func (m *AdminUserModel) FromDomain(u *identity.AdminUser) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.IsActive = u.IsActive
	m.LastLoginAt = u.LastLoginAt
}

// AdminUserModelFromDomain creates a new persistence model from a domain AdminUser entity.
func AdminUserModelFromDomain(u *identity.AdminUser) *AdminUserModel {
	m := &AdminUserModel{}
	m.FromDomain(u)
	return m
}
