package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/identity"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const adminUserResource = "admin user"

// GormAdminUserRepository implements identity.AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// Create creates a new account
func (r *GormAdminUserRepository) Create(ctx context.Context, user *identity.AdminUser) error {
	return translateError(r.db.WithContext(ctx).Create(models.AdminUserModelFromDomain(user)).Error, adminUserResource)
}

// Update updates an existing account
func (r *GormAdminUserRepository) Update(ctx context.Context, user *identity.AdminUser) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdminUserModel{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(models.AdminUserModelFromDomain(user))
	if result.Error != nil {
		return translateError(result.Error, adminUserResource)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(adminUserResource)
	}
	return nil
}

// FindByID finds an account by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, adminUserResource)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an account by email, ignoring case
func (r *GormAdminUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateError(err, adminUserResource)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormAdminUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AdminUserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, translateError(err, adminUserResource)
	}
	return count > 0, nil
}

// Ensure GormAdminUserRepository implements AdminUserRepository
var _ identity.AdminUserRepository = (*GormAdminUserRepository)(nil)
