package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMemberRepository implements membership.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds an application by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.MemberApplication, error) {
	var model models.MemberApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "member application")
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of applications matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.MemberApplication, int64, error) {
	filter = filter.Normalize()
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MemberApplicationModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "member application")
	}

	var rows []models.MemberApplicationModel
	if err := query.
		Order(memberSortColumns.clause(filter.OrderBy, filter.OrderDir, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "member application")
	}

	out := make([]membership.MemberApplication, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new application
func (r *GormMemberRepository) Create(ctx context.Context, m *membership.MemberApplication) error {
	return translateError(r.db.WithContext(ctx).Create(models.MemberApplicationModelFromDomain(m)).Error, "member application")
}

// Save writes every column of an existing application
func (r *GormMemberRepository) Save(ctx context.Context, m *membership.MemberApplication) error {
	result := r.db.WithContext(ctx).
		Model(&models.MemberApplicationModel{}).
		Where("id = ?", m.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(models.MemberApplicationModelFromDomain(m))
	if result.Error != nil {
		return translateError(result.Error, "member application")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("member application")
	}
	return nil
}

// Delete removes an application by ID
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MemberApplicationModel{})
	if result.Error != nil {
		return translateError(result.Error, "member application")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("member application")
	}
	return nil
}

func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(organization) LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ membership.MemberRepository = (*GormMemberRepository)(nil)
