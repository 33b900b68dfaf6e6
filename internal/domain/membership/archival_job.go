package membership

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/shared"
)

// SourceKind names the entity an archival job projects
type SourceKind string

const (
	SourceKindMember  SourceKind = "member"
	SourceKindRenewal SourceKind = "renewal"
)

// ArchivalJobStatus is the processing state of an archival job
type ArchivalJobStatus string

const (
	ArchivalJobPending    ArchivalJobStatus = "PENDING"
	ArchivalJobProcessing ArchivalJobStatus = "PROCESSING"
	ArchivalJobDone       ArchivalJobStatus = "DONE"
	ArchivalJobFailed     ArchivalJobStatus = "FAILED"
	ArchivalJobDead       ArchivalJobStatus = "DEAD"
)

// IsValid reports whether s is a known job status
func (s ArchivalJobStatus) IsValid() bool {
	switch s {
	case ArchivalJobPending, ArchivalJobProcessing, ArchivalJobDone, ArchivalJobFailed, ArchivalJobDead:
		return true
	}
	return false
}

// Retry defaults
const (
	DefaultArchivalMaxRetries = 5
	DefaultArchivalBackoff    = 30 * time.Second

	// DefaultArchivalProcessingLease is how long a claimed job may stay in
	// PROCESSING before another worker takes it over
	DefaultArchivalProcessingLease = 10 * time.Minute
)

// ArchivalJob records a projection that failed during a status update and
// must be retried. Retrying is safe because the ledger write is an upsert.
type ArchivalJob struct {
	shared.BaseEntity
	SourceKind  SourceKind
	SourceID    uuid.UUID
	Status      ArchivalJobStatus
	RetryCount  int
	MaxRetries  int
	LastError   string
	NextRetryAt *time.Time
	ProcessedAt *time.Time
}

// NewArchivalJob creates a pending job for the given source record
func NewArchivalJob(kind SourceKind, sourceID uuid.UUID, cause error) *ArchivalJob {
	job := &ArchivalJob{
		BaseEntity: shared.NewBaseEntity(),
		SourceKind: kind,
		SourceID:   sourceID,
		Status:     ArchivalJobPending,
		MaxRetries: DefaultArchivalMaxRetries,
	}
	if cause != nil {
		job.LastError = cause.Error()
	}
	return job
}

// IsClaimable reports whether a worker may take the job at now. A job left
// in PROCESSING longer than lease belongs to a worker that died.
func (j *ArchivalJob) IsClaimable(now time.Time, lease time.Duration) bool {
	switch j.Status {
	case ArchivalJobPending, ArchivalJobFailed:
		return true
	case ArchivalJobProcessing:
		return !j.UpdatedAt.After(now.Add(-lease))
	}
	return false
}

// MarkProcessing claims the job for a worker
func (j *ArchivalJob) MarkProcessing(now time.Time, lease time.Duration) error {
	if !j.IsClaimable(now, lease) {
		return errors.New("can only claim pending, failed or stale processing archival jobs")
	}
	j.Status = ArchivalJobProcessing
	j.UpdatedAt = now
	return nil
}

// Release hands a claimed job back to the queue without counting an attempt
func (j *ArchivalJob) Release() {
	if j.Status != ArchivalJobProcessing {
		return
	}
	j.Status = ArchivalJobPending
	j.UpdatedAt = time.Now()
}

// MarkDone records a successful projection
func (j *ArchivalJob) MarkDone() {
	now := time.Now()
	j.Status = ArchivalJobDone
	j.ProcessedAt = &now
	j.NextRetryAt = nil
	j.UpdatedAt = now
}

// MarkFailed records a failed attempt and schedules the next one with
// exponential backoff, or moves the job to DEAD once retries are exhausted.
func (j *ArchivalJob) MarkFailed(errMsg string) {
	j.RetryCount++
	j.LastError = errMsg
	j.UpdatedAt = time.Now()

	if j.RetryCount >= j.MaxRetries {
		j.Status = ArchivalJobDead
		j.NextRetryAt = nil
		return
	}
	j.Status = ArchivalJobFailed
	next := time.Now().Add(DefaultArchivalBackoff * time.Duration(1<<uint(j.RetryCount-1)))
	j.NextRetryAt = &next
}

// ResetForRetry puts a dead job back in the queue
func (j *ArchivalJob) ResetForRetry() error {
	if j.Status != ArchivalJobDead {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "only dead archival jobs can be retried")
	}
	j.Status = ArchivalJobPending
	j.RetryCount = 0
	j.NextRetryAt = nil
	j.UpdatedAt = time.Now()
	return nil
}

// IsDead reports whether the job exhausted its retries
func (j *ArchivalJob) IsDead() bool {
	return j.Status == ArchivalJobDead
}
