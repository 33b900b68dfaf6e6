package membership

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

type retrierFixture struct {
	retrier *ArchivalRetrier
	tx      *fakeTx
	metrics *recordingMetrics
	logs    *observer.ObservedLogs
	now     time.Time
}

func newRetrierFixture() *retrierFixture {
	tx := newFakeTx()
	metrics := &recordingMetrics{}
	core, logs := observer.New(zap.DebugLevel)
	r := NewArchivalRetrier(tx.jobs, &fakeTxManager{tx: tx}, metrics, RetrierConfig{BatchSize: 10}, zap.New(core))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return &retrierFixture{retrier: r, tx: tx, metrics: metrics, logs: logs, now: now}
}

// expectClaim makes FindDue and Claim hand out jobs
func (f *retrierFixture) expectClaim(jobs ...*membership.ArchivalJob) {
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	f.tx.jobs.On("FindDue", mock.Anything, f.now, 10).Return(jobs, nil)
	f.tx.jobs.On("Claim", mock.Anything, ids).Return(jobs, nil)
}

func approvedMember(t *testing.T) *membership.MemberApplication {
	m := newTestMember(t)
	require.NoError(t, m.ChangeStatus(membership.MemberStatusApproved, nil))
	return m
}

func TestNewArchivalRetrier_Defaults(t *testing.T) {
	r := NewArchivalRetrier(nil, nil, nil, RetrierConfig{}, nil)

	assert.Equal(t, DefaultRetrierConfig().BatchSize, r.config.BatchSize)
	assert.Equal(t, DefaultRetrierConfig().PollInterval, r.config.PollInterval)
	assert.Equal(t, DefaultRetrierConfig().CleanupRetention, r.config.CleanupRetention)
	assert.NotNil(t, r.logger)
	assert.NotNil(t, r.metrics)
	assert.Equal(t, rate.Inf, r.limiter.Limit())
}

func TestNewRetryLimiter(t *testing.T) {
	l := newRetryLimiter(20)
	assert.Equal(t, rate.Limit(20), l.Limit())
	assert.Equal(t, 20, l.Burst())

	assert.Equal(t, 1, newRetryLimiter(0.5).Burst())
	assert.Equal(t, rate.Inf, newRetryLimiter(-1).Limit())
}

func TestArchivalRetrier_CancelledWhilePacingClaimsNothing(t *testing.T) {
	f := newRetrierFixture()
	job := membership.NewArchivalJob(membership.SourceKindMember, uuid.New(), errors.New("timeout"))
	f.tx.jobs.On("FindDue", mock.Anything, f.now, 10).Return([]*membership.ArchivalJob{job}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.retrier.processBatch(ctx)

	f.tx.jobs.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
	assert.Equal(t, membership.ArchivalJobPending, job.Status)
}

func TestArchivalRetrier_ReprojectsCurrentSource(t *testing.T) {
	f := newRetrierFixture()
	m := approvedMember(t)
	m.Phone = "+234 800 999"
	job := membership.NewArchivalJob(membership.SourceKindMember, m.ID, errors.New("timeout"))

	f.expectClaim(job)
	f.tx.members.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.tx.ledger.On("Upsert", mock.Anything, mock.MatchedBy(func(e *membership.LedgerEntry) bool {
		return *e.OriginalMemberID == m.ID.String() && e.Phone == "+234 800 999" && e.UploadedAt.Equal(f.now)
	})).Return(&membership.LedgerEntry{BaseEntity: shared.NewBaseEntity()}, nil)
	f.tx.jobs.On("Save", mock.Anything, job).Return(nil)

	f.retrier.processBatch(context.Background())

	assert.Equal(t, membership.ArchivalJobDone, job.Status)
	assert.NotNil(t, job.ProcessedAt)
	assert.Equal(t, []string{"member:retried"}, f.metrics.archivals)
	f.tx.ledger.AssertExpectations(t)
	f.tx.jobs.AssertExpectations(t)
}

func TestArchivalRetrier_RenewalSource(t *testing.T) {
	f := newRetrierFixture()
	r := newTestRenewal(t, membership.RenewalStatusActive)
	job := membership.NewArchivalJob(membership.SourceKindRenewal, r.ID, nil)

	f.expectClaim(job)
	f.tx.renewals.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	f.tx.ledger.On("Upsert", mock.Anything, mock.MatchedBy(func(e *membership.LedgerEntry) bool {
		return e.OriginalRenewalID != nil && *e.OriginalRenewalID == r.ID.String()
	})).Return(&membership.LedgerEntry{BaseEntity: shared.NewBaseEntity()}, nil)
	f.tx.jobs.On("Save", mock.Anything, job).Return(nil)

	f.retrier.processBatch(context.Background())

	assert.Equal(t, membership.ArchivalJobDone, job.Status)
	assert.Equal(t, []string{"renewal:retried"}, f.metrics.archivals)
}

func TestArchivalRetrier_DeletedSourceClosesJob(t *testing.T) {
	f := newRetrierFixture()
	job := membership.NewArchivalJob(membership.SourceKindMember, uuid.New(), errors.New("timeout"))

	f.expectClaim(job)
	f.tx.members.On("FindByID", mock.Anything, job.SourceID).Return(nil, shared.NotFound("member application"))
	f.tx.jobs.On("Save", mock.Anything, job).Return(nil)

	f.retrier.processBatch(context.Background())

	assert.Equal(t, membership.ArchivalJobDone, job.Status)
	assert.Equal(t, errSourceGone.Error(), job.LastError)
	assert.Equal(t, 1, f.logs.FilterMessage("archival source deleted, closing job").Len())
	f.tx.ledger.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestArchivalRetrier_SourceNoLongerApproved(t *testing.T) {
	f := newRetrierFixture()
	m := newTestMember(t)
	require.NoError(t, m.ChangeStatus(membership.MemberStatusRejected, nil))
	job := membership.NewArchivalJob(membership.SourceKindMember, m.ID, nil)

	f.expectClaim(job)
	f.tx.members.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.tx.jobs.On("Save", mock.Anything, job).Return(nil)

	f.retrier.processBatch(context.Background())

	assert.Equal(t, membership.ArchivalJobDone, job.Status)
	f.tx.ledger.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestArchivalRetrier_FailureBacksOffThenDies(t *testing.T) {
	f := newRetrierFixture()
	m := approvedMember(t)
	job := membership.NewArchivalJob(membership.SourceKindMember, m.ID, nil)
	job.MaxRetries = 2

	f.expectClaim(job)
	f.tx.members.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.tx.ledger.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("deadlock detected"))
	f.tx.jobs.On("Save", mock.Anything, job).Return(nil)

	f.retrier.processBatch(context.Background())

	assert.Equal(t, membership.ArchivalJobFailed, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, "deadlock detected", job.LastError)
	require.NotNil(t, job.NextRetryAt)
	assert.Equal(t, 1, f.logs.FilterMessage("archival retry failed").Len())

	f.retrier.processBatch(context.Background())

	assert.Equal(t, membership.ArchivalJobDead, job.Status)
	assert.Nil(t, job.NextRetryAt)
	assert.Equal(t, []string{"member:failed", "member:dead"}, f.metrics.archivals)
	assert.Equal(t, 1, f.logs.FilterMessage("archival job moved to dead letter state").Len())
}

func TestArchivalRetrier_ShutdownMidRetryReleasesJob(t *testing.T) {
	f := newRetrierFixture()
	m := approvedMember(t)
	job := membership.NewArchivalJob(membership.SourceKindMember, m.ID, errors.New("timeout"))
	require.NoError(t, job.MarkProcessing(f.now, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	f.tx.members.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	f.tx.ledger.On("Upsert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)
	f.tx.jobs.On("Save", mock.MatchedBy(func(c context.Context) bool {
		_, hasDeadline := c.Deadline()
		return c.Err() == nil && hasDeadline
	}), job).Return(nil)

	f.retrier.processJob(ctx, job)

	f.tx.jobs.AssertExpectations(t)
	assert.Equal(t, membership.ArchivalJobPending, job.Status)
	assert.Zero(t, job.RetryCount)
	assert.Empty(t, f.metrics.archivals)
	assert.Equal(t, 1, f.logs.FilterMessage("archival retry interrupted, releasing job").Len())
}

func TestArchivalRetrier_SaveSurvivesCancelledContext(t *testing.T) {
	f := newRetrierFixture()
	m := approvedMember(t)
	job := membership.NewArchivalJob(membership.SourceKindMember, m.ID, nil)
	require.NoError(t, job.MarkProcessing(f.now, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	f.tx.members.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	// the projection committed before the stop signal arrived
	f.tx.ledger.On("Upsert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(&membership.LedgerEntry{BaseEntity: shared.NewBaseEntity()}, nil)
	f.tx.jobs.On("Save", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), job).Return(nil)

	f.retrier.processJob(ctx, job)

	f.tx.jobs.AssertExpectations(t)
	assert.Equal(t, membership.ArchivalJobDone, job.Status)
}

func TestArchivalRetrier_NothingDue(t *testing.T) {
	f := newRetrierFixture()
	f.tx.jobs.On("FindDue", mock.Anything, f.now, 10).Return([]*membership.ArchivalJob{}, nil)

	f.retrier.processBatch(context.Background())

	f.tx.jobs.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
}

func TestArchivalRetrier_FindDueError(t *testing.T) {
	f := newRetrierFixture()
	f.tx.jobs.On("FindDue", mock.Anything, f.now, 10).Return([]*membership.ArchivalJob(nil), errors.New("connection refused"))

	f.retrier.processBatch(context.Background())

	assert.Equal(t, 1, f.logs.FilterMessage("failed to find due archival jobs").Len())
	f.tx.jobs.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
}

func TestArchivalRetrier_SaveErrorIsLogged(t *testing.T) {
	f := newRetrierFixture()
	job := membership.NewArchivalJob(membership.SourceKindMember, uuid.New(), nil)
	f.expectClaim(job)
	f.tx.members.On("FindByID", mock.Anything, job.SourceID).Return(nil, shared.NotFound("member application"))
	f.tx.jobs.On("Save", mock.Anything, job).Return(errors.New("connection refused"))

	f.retrier.processBatch(context.Background())

	assert.Equal(t, 1, f.logs.FilterMessage("failed to update archival job").Len())
}

func TestArchivalRetrier_Cleanup(t *testing.T) {
	f := newRetrierFixture()
	cutoff := f.now.Add(-DefaultRetrierConfig().CleanupRetention)
	f.tx.jobs.On("DeleteDoneBefore", mock.Anything, cutoff).Return(int64(4), nil)

	f.retrier.cleanup(context.Background())

	f.tx.jobs.AssertExpectations(t)
	entries := f.logs.FilterMessage("cleaned up archival jobs").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].ContextMap()["deleted_count"])
}

func TestArchivalRetrier_StartStop(t *testing.T) {
	f := newRetrierFixture()
	f.retrier.config.PollInterval = time.Hour
	f.retrier.config.CleanupInterval = time.Hour

	require.NoError(t, f.retrier.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.retrier.Stop(ctx))

	assert.Equal(t, 1, f.logs.FilterMessage("archival retrier started").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("archival retrier stopped").Len())
}
