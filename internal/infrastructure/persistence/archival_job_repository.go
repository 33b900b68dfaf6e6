package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const archivalJobResource = "archival job"

// GormArchivalJobRepository implements membership.ArchivalJobRepository using GORM
type GormArchivalJobRepository struct {
	db    *gorm.DB
	lease time.Duration
	now   func() time.Time
}

// NewGormArchivalJobRepository creates a new GormArchivalJobRepository
func NewGormArchivalJobRepository(db *gorm.DB) *GormArchivalJobRepository {
	return &GormArchivalJobRepository{
		db:    db,
		lease: membership.DefaultArchivalProcessingLease,
		now:   time.Now,
	}
}

// WithProcessingLease sets how long a claimed job may stay in PROCESSING
// before FindDue and Claim hand it out again
func (r *GormArchivalJobRepository) WithProcessingLease(lease time.Duration) *GormArchivalJobRepository {
	if lease > 0 {
		r.lease = lease
	}
	return r
}

// Save inserts the job or overwrites the stored copy
func (r *GormArchivalJobRepository) Save(ctx context.Context, job *membership.ArchivalJob) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(models.ArchivalJobModelFromDomain(job)).Error
	return translateError(err, archivalJobResource)
}

// FindByID finds a job by its ID
func (r *GormArchivalJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.ArchivalJob, error) {
	var model models.ArchivalJobModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err, archivalJobResource)
	}
	return model.ToDomain(), nil
}

// claimableScope matches jobs a worker may take at now
func (r *GormArchivalJobRepository) claimableScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? OR (status = ? AND next_retry_at <= ?) OR (status = ? AND updated_at <= ?)",
			membership.ArchivalJobPending,
			membership.ArchivalJobFailed, now,
			membership.ArchivalJobProcessing, now.Add(-r.lease))
	}
}

// FindDue returns pending jobs, failed jobs whose retry time has come and
// processing jobs whose lease ran out, oldest first
func (r *GormArchivalJobRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*membership.ArchivalJob, error) {
	var rows []models.ArchivalJobModel
	if err := r.db.WithContext(ctx).
		Scopes(r.claimableScope(now)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, translateError(err, archivalJobResource)
	}
	return toArchivalJobs(rows), nil
}

// Claim marks the given jobs as processing and returns those it could take.
// Rows locked by another worker are skipped (postgres only; sqlite has no row locks).
func (r *GormArchivalJobRepository) Claim(ctx context.Context, ids []uuid.UUID) ([]*membership.ArchivalJob, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	now := r.now()
	var claimed []*membership.ArchivalJob
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.ArchivalJobModel
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Options:  "SKIP LOCKED",
			}).
			Where("id IN ?", ids).
			Find(&rows).Error; err != nil {
			return err
		}

		claimedIDs := make([]uuid.UUID, 0, len(rows))
		for _, job := range toArchivalJobs(rows) {
			if err := job.MarkProcessing(now, r.lease); err != nil {
				continue
			}
			claimed = append(claimed, job)
			claimedIDs = append(claimedIDs, job.ID)
		}
		if len(claimedIDs) == 0 {
			return nil
		}

		return tx.Model(&models.ArchivalJobModel{}).
			Where("id IN ?", claimedIDs).
			Updates(map[string]any{
				"status":     membership.ArchivalJobProcessing,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, translateError(err, archivalJobResource)
	}
	return claimed, nil
}

// FindAll pages through jobs, optionally restricted to one status
func (r *GormArchivalJobRepository) FindAll(ctx context.Context, status membership.ArchivalJobStatus, filter shared.Filter) ([]membership.ArchivalJob, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ArchivalJobModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, archivalJobResource)
	}

	var rows []models.ArchivalJobModel
	if err := query.
		Order(archivalJobSortColumns.clause(filter.OrderBy, filter.OrderDir, "updated_at")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, archivalJobResource)
	}

	out := make([]membership.ArchivalJob, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// DeleteDoneBefore removes finished jobs processed before cutoff
func (r *GormArchivalJobRepository) DeleteDoneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", membership.ArchivalJobDone, cutoff).
		Delete(&models.ArchivalJobModel{})
	if result.Error != nil {
		return 0, translateError(result.Error, archivalJobResource)
	}
	return result.RowsAffected, nil
}

func toArchivalJobs(rows []models.ArchivalJobModel) []*membership.ArchivalJob {
	out := make([]*membership.ArchivalJob, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// Ensure GormArchivalJobRepository implements ArchivalJobRepository
var _ membership.ArchivalJobRepository = (*GormArchivalJobRepository)(nil)
