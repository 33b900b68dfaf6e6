package membership

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// ArchivalJobService exposes archival retry jobs to admins
type ArchivalJobService struct {
	jobRepo membership.ArchivalJobRepository
}

// NewArchivalJobService creates a new ArchivalJobService
func NewArchivalJobService(jobRepo membership.ArchivalJobRepository) *ArchivalJobService {
	return &ArchivalJobService{jobRepo: jobRepo}
}

// List returns one page of jobs, optionally restricted to one status
func (s *ArchivalJobService) List(ctx context.Context, filter ListFilter) ([]ArchivalJobResponse, int64, error) {
	var status membership.ArchivalJobStatus
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		status = membership.ArchivalJobStatus(strings.ToUpper(raw))
		if !status.IsValid() {
			return nil, 0, shared.InvalidInput(fmt.Sprintf("invalid archival job status %q", raw))
		}
	}

	jobs, total, err := s.jobRepo.FindAll(ctx, status, toDomainFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	out := make([]ArchivalJobResponse, len(jobs))
	for i := range jobs {
		out[i] = *ToArchivalJobResponse(&jobs[i])
	}
	return out, total, nil
}

// Retry puts a dead job back in the queue. Jobs in any other state are
// INVALID_STATE.
func (s *ArchivalJobService) Retry(ctx context.Context, rawID string) (*ArchivalJobResponse, error) {
	id, err := shared.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := job.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, err
	}
	return ToArchivalJobResponse(job), nil
}
