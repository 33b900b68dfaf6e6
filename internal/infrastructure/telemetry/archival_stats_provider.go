package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormArchivalStatsProvider implements ArchivalStatsProvider by grouping
// the archival_jobs table on status.
type GormArchivalStatsProvider struct {
	db *gorm.DB
}

// NewGormArchivalStatsProvider creates a new GormArchivalStatsProvider.
func NewGormArchivalStatsProvider(db *gorm.DB) *GormArchivalStatsProvider {
	return &GormArchivalStatsProvider{db: db}
}

// CountArchivalJobsByStatus returns the number of jobs per status.
// Statuses without jobs are absent from the map.
func (p *GormArchivalStatsProvider) CountArchivalJobsByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Total  int64  `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("archival_jobs").
		Select("status, COUNT(*) AS total").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
