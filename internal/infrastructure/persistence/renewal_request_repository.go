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

// GormRenewalRepository implements membership.RenewalRepository using GORM
type GormRenewalRepository struct {
	db *gorm.DB
}

// NewGormRenewalRepository creates a new GormRenewalRepository
func NewGormRenewalRepository(db *gorm.DB) *GormRenewalRepository {
	return &GormRenewalRepository{db: db}
}

// FindByID finds a renewal by its ID
func (r *GormRenewalRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.RenewalRequest, error) {
	var model models.RenewalRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, "renewal request")
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of renewals matching the filter
func (r *GormRenewalRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.RenewalRequest, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.RenewalRequestModel{})
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if number, ok := filter.Filters["membership_number"].(string); ok && number != "" {
		query = query.Where("membership_number = ?", number)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(organization) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "renewal request")
	}

	var rows []models.RenewalRequestModel
	if err := query.
		Order(renewalSortColumns.clause(filter.OrderBy, filter.OrderDir, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "renewal request")
	}

	out := make([]membership.RenewalRequest, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new renewal
func (r *GormRenewalRepository) Create(ctx context.Context, req *membership.RenewalRequest) error {
	return translateError(r.db.WithContext(ctx).Create(models.RenewalRequestModelFromDomain(req)).Error, "renewal request")
}

// Save writes every column of an existing renewal
func (r *GormRenewalRepository) Save(ctx context.Context, req *membership.RenewalRequest) error {
	result := r.db.WithContext(ctx).
		Model(&models.RenewalRequestModel{}).
		Where("id = ?", req.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(models.RenewalRequestModelFromDomain(req))
	if result.Error != nil {
		return translateError(result.Error, "renewal request")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("renewal request")
	}
	return nil
}

// Delete removes a renewal by ID
func (r *GormRenewalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RenewalRequestModel{})
	if result.Error != nil {
		return translateError(result.Error, "renewal request")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("renewal request")
	}
	return nil
}

// Ensure GormRenewalRepository implements RenewalRepository
var _ membership.RenewalRepository = (*GormRenewalRepository)(nil)
