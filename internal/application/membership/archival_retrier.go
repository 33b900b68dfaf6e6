package membership

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RetrierConfig holds configuration for the archival retrier
type RetrierConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration

	// MaxRetriesPerSecond paces retries after an outage. Zero means unlimited.
	MaxRetriesPerSecond float64
}

// DefaultRetrierConfig returns default configuration
func DefaultRetrierConfig() RetrierConfig {
	return RetrierConfig{
		BatchSize:        50,
		PollInterval:     30 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// jobSaveTimeout bounds the final job write, which runs detached from the
// worker context so a shutdown cannot strand the job in PROCESSING
const jobSaveTimeout = 5 * time.Second

// errSourceGone marks a job whose application or renewal was deleted
var errSourceGone = errors.New("archival source no longer exists")

// ArchivalRetrier re-runs failed ledger projections in the background.
// Each attempt rebuilds the entry from the current source record, so a
// retry reflects edits made since the original failure.
type ArchivalRetrier struct {
	jobRepo   membership.ArchivalJobRepository
	txManager membership.TxManager
	metrics   Metrics
	config    RetrierConfig
	logger    *zap.Logger
	limiter   *rate.Limiter
	now       func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewArchivalRetrier creates a new archival retrier
func NewArchivalRetrier(
	jobRepo membership.ArchivalJobRepository,
	txManager membership.TxManager,
	metrics Metrics,
	config RetrierConfig,
	logger *zap.Logger,
) *ArchivalRetrier {
	defaults := DefaultRetrierConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.CleanupRetention <= 0 {
		config.CleanupRetention = defaults.CleanupRetention
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchivalRetrier{
		jobRepo:   jobRepo,
		txManager: txManager,
		metrics:   metricsOrNoop(metrics),
		config:    config,
		logger:    logger,
		limiter:   newRetryLimiter(config.MaxRetriesPerSecond),
		now:       time.Now,
	}
}

func newRetryLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond)))
}

// Start starts the background processing
func (p *ArchivalRetrier) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.cleanupLoop(ctx)
	}

	p.logger.Info("archival retrier started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the retrier
func (p *ArchivalRetrier) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("archival retrier stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var retryProfileLabels = telemetry.OperationLabels("archival_retry", nil)

func (p *ArchivalRetrier) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			telemetry.WithProfilingLabels(ctx, retryProfileLabels, p.processBatch)
		}
	}
}

// processBatch claims due jobs and retries each of them
func (p *ArchivalRetrier) processBatch(ctx context.Context) {
	due, err := p.jobRepo.FindDue(ctx, p.now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find due archival jobs", zap.Error(err))
		return
	}
	// take a token per job before claiming, so a shutdown while waiting
	// leaves the rest pending instead of stuck in processing
	paced := 0
	for range due {
		if err := p.limiter.Wait(ctx); err != nil {
			break
		}
		paced++
	}
	due = due[:paced]
	if len(due) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(due))
	for i, j := range due {
		ids[i] = j.ID
	}
	claimed, err := p.jobRepo.Claim(ctx, ids)
	if err != nil {
		p.logger.Error("failed to claim archival jobs", zap.Error(err))
		return
	}

	for _, job := range claimed {
		p.processJob(ctx, job)
	}
}

func (p *ArchivalRetrier) processJob(ctx context.Context, job *membership.ArchivalJob) {
	ctx, span := telemetry.StartServiceSpan(ctx, "archival", "retry",
		telemetry.WithAttribute(telemetry.SpanAttrJobID, job.ID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrSourceKind, string(job.SourceKind)),
	)
	defer span.End()

	fields := []zap.Field{
		zap.String("archival_job_id", job.ID.String()),
		zap.String(sourceAttr(job.SourceKind), job.SourceID.String()),
	}

	err := p.reproject(ctx, job)
	switch {
	case err == nil:
		job.MarkDone()
		p.metrics.RecordArchival(ctx, string(job.SourceKind), telemetry.OutcomeRetried)
		telemetry.SetOK(span)
		p.logger.Debug("archival job completed", fields...)
	case errors.Is(err, errSourceGone):
		// nothing left to project
		job.MarkDone()
		job.LastError = err.Error()
		p.logger.Info("archival source deleted, closing job", fields...)
	case ctx.Err() != nil:
		// interrupted by shutdown, not a failed attempt
		job.Release()
		p.logger.Info("archival retry interrupted, releasing job", append(fields, zap.Error(err))...)
	default:
		telemetry.RecordError(span, err)
		job.MarkFailed(err.Error())
		if job.IsDead() {
			p.metrics.RecordArchival(ctx, string(job.SourceKind), telemetry.OutcomeDead)
			p.logger.Warn("archival job moved to dead letter state",
				append(fields,
					zap.Int("retry_count", job.RetryCount),
					zap.String("last_error", job.LastError),
				)...,
			)
		} else {
			p.metrics.RecordArchival(ctx, string(job.SourceKind), telemetry.OutcomeFailed)
			p.logger.Warn("archival retry failed", append(fields, zap.Error(err))...)
		}
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), jobSaveTimeout)
	defer cancel()
	if saveErr := p.jobRepo.Save(saveCtx, job); saveErr != nil {
		p.logger.Error("failed to update archival job", append(fields, zap.Error(saveErr))...)
	}
}

// reproject upserts the ledger entry built from the job's current source
// record. A source that no longer triggers archival is left alone.
func (p *ArchivalRetrier) reproject(ctx context.Context, job *membership.ArchivalJob) error {
	return p.txManager.WithinTransaction(ctx, func(tx membership.Tx) error {
		var entry *membership.LedgerEntry
		switch job.SourceKind {
		case membership.SourceKindMember:
			m, err := tx.Members().FindByID(ctx, job.SourceID)
			if err != nil {
				return sourceError(err)
			}
			if !m.Status.TriggersArchival() {
				return nil
			}
			entry = membership.NewMemberLedgerEntry(m, p.now())
		case membership.SourceKindRenewal:
			r, err := tx.Renewals().FindByID(ctx, job.SourceID)
			if err != nil {
				return sourceError(err)
			}
			if !r.Status.TriggersArchival() {
				return nil
			}
			entry = membership.NewRenewalLedgerEntry(r, p.now())
		default:
			return errSourceGone
		}
		_, err := tx.Ledger().Upsert(ctx, entry)
		return err
	})
}

func sourceError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return errSourceGone
	}
	return err
}

func (p *ArchivalRetrier) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cleanup(ctx)
		}
	}
}

// cleanup removes finished jobs older than the retention window
func (p *ArchivalRetrier) cleanup(ctx context.Context) {
	cutoff := p.now().Add(-p.config.CleanupRetention)
	deleted, err := p.jobRepo.DeleteDoneBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to clean up archival jobs", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("cleaned up archival jobs",
			zap.Int64("deleted_count", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
