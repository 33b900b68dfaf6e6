package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ledgerResource = "ledger entry"

// ledgerBatchSize bounds the rows per INSERT statement during bulk imports
const ledgerBatchSize = 200

// upsertColumns are overwritten when a projection hits an existing entry.
// id, created_at and the back-reference itself are kept.
var upsertColumns = []string{
	"name", "organisation", "email", "phone", "year", "uploaded_at", "source", "updated_at",
}

// ErrMissingBackReference is returned by Upsert for entries without a source reference
var ErrMissingBackReference = errors.New("ledger upsert requires a member or renewal reference")

// GormLedgerRepository implements membership.LedgerRepository on the
// historical_members table
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Upsert inserts the entry or updates the row holding the same back-reference
// in one INSERT ... ON CONFLICT statement, then reads the stored row back.
func (r *GormLedgerRepository) Upsert(ctx context.Context, entry *membership.LedgerEntry) (*membership.LedgerEntry, error) {
	var column, ref string
	switch {
	case entry.OriginalMemberID != nil:
		column, ref = "original_member_id", *entry.OriginalMemberID
	case entry.OriginalRenewalID != nil:
		column, ref = "original_renewal_id", *entry.OriginalRenewalID
	default:
		return nil, ErrMissingBackReference
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(models.HistoricalMemberModelFromDomain(entry)).Error
	if err != nil {
		return nil, translateError(err, ledgerResource)
	}

	return r.findOne(ctx, column+" = ?", ref)
}

// CreateBatch inserts imported entries in batches
func (r *GormLedgerRepository) CreateBatch(ctx context.Context, entries []*membership.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.HistoricalMemberModel, len(entries))
	for i, e := range entries {
		rows[i] = models.HistoricalMemberModelFromDomain(e)
	}
	return translateError(r.db.WithContext(ctx).CreateInBatches(rows, ledgerBatchSize).Error, ledgerResource)
}

// FindByID finds an entry by its ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.LedgerEntry, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByMemberRef finds the entry projected from an application
func (r *GormLedgerRepository) FindByMemberRef(ctx context.Context, memberID uuid.UUID) (*membership.LedgerEntry, error) {
	return r.findOne(ctx, "original_member_id = ?", memberID.String())
}

// FindByRenewalRef finds the entry projected from a renewal
func (r *GormLedgerRepository) FindByRenewalRef(ctx context.Context, renewalID uuid.UUID) (*membership.LedgerEntry, error) {
	return r.findOne(ctx, "original_renewal_id = ?", renewalID.String())
}

// FindByYear lists a year's entries ordered by upload time (newest first) then name
func (r *GormLedgerRepository) FindByYear(ctx context.Context, year string) ([]membership.LedgerEntry, error) {
	var rows []models.HistoricalMemberModel
	if err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("uploaded_at DESC").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, ledgerResource)
	}

	out := make([]membership.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByYear counts a year's entries
func (r *GormLedgerRepository) CountByYear(ctx context.Context, year string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.HistoricalMemberModel{}).
		Where("year = ?", year).
		Count(&count).Error; err != nil {
		return 0, translateError(err, ledgerResource)
	}
	return count, nil
}

// DeleteByYear deletes a year's entries and reports how many were removed
func (r *GormLedgerRepository) DeleteByYear(ctx context.Context, year string) (int64, error) {
	result := r.db.WithContext(ctx).Where("year = ?", year).Delete(&models.HistoricalMemberModel{})
	if result.Error != nil {
		return 0, translateError(result.Error, ledgerResource)
	}
	return result.RowsAffected, nil
}

// Delete removes one entry by ID
func (r *GormLedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.HistoricalMemberModel{})
	if result.Error != nil {
		return translateError(result.Error, ledgerResource)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(ledgerResource)
	}
	return nil
}

// Years lists each year present in the ledger with its entry count
func (r *GormLedgerRepository) Years(ctx context.Context) ([]membership.YearCount, error) {
	var rows []membership.YearCount
	if err := r.db.WithContext(ctx).
		Model(&models.HistoricalMemberModel{}).
		Select("year, COUNT(*) AS count").
		Group("year").
		Order("year DESC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, ledgerResource)
	}
	return rows, nil
}

func (r *GormLedgerRepository) findOne(ctx context.Context, query string, args ...any) (*membership.LedgerEntry, error) {
	var model models.HistoricalMemberModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		return nil, translateError(err, ledgerResource)
	}
	return model.ToDomain(), nil
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ membership.LedgerRepository = (*GormLedgerRepository)(nil)
