package membership

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/infrastructure/logger"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Metrics receives membership counters. *telemetry.MembershipMetrics
// satisfies it; a nil Metrics records nothing.
type Metrics interface {
	RecordStatusUpdate(ctx context.Context, kind, status string)
	RecordArchival(ctx context.Context, kind, outcome string)
	RecordImportRows(ctx context.Context, imported, skipped int)
}

type noopMetrics struct{}

func (noopMetrics) RecordStatusUpdate(context.Context, string, string) {}
func (noopMetrics) RecordArchival(context.Context, string, string) {}
func (noopMetrics) RecordImportRows(context.Context, int, int) {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// Archiver projects approved applications and active renewals into the
// historical ledger.
type Archiver struct {
	logger     *zap.Logger
	metrics    Metrics
	maxRetries int
	now        func() time.Time
}

// ArchiverOption configures an Archiver
type ArchiverOption func(*Archiver)

// WithArchiverMetrics sets the metrics sink
func WithArchiverMetrics(m Metrics) ArchiverOption {
	return func(a *Archiver) {
		a.metrics = metricsOrNoop(m)
	}
}

// WithMaxRetries sets the retry budget of queued archival jobs
func WithMaxRetries(n int) ArchiverOption {
	return func(a *Archiver) {
		if n > 0 {
			a.maxRetries = n
		}
	}
}

// WithClock overrides the time source used for upload timestamps
func WithClock(now func() time.Time) ArchiverOption {
	return func(a *Archiver) {
		a.now = now
	}
}

// NewArchiver creates a new Archiver
func NewArchiver(log *zap.Logger, opts ...ArchiverOption) *Archiver {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Archiver{
		logger:     log,
		metrics:    noopMetrics{},
		maxRetries: membership.DefaultArchivalMaxRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ArchiveMember upserts the ledger entry for m inside a savepoint of tx and
// reports whether it was stored. A failed projection never fails tx: it is
// logged at warn and queued as an archival job.
func (a *Archiver) ArchiveMember(ctx context.Context, tx membership.Tx, m *membership.MemberApplication) bool {
	entry := membership.NewMemberLedgerEntry(m, a.now())
	return a.archive(ctx, tx, membership.SourceKindMember, m.ID, entry)
}

// ArchiveRenewal upserts the ledger entry for r; see ArchiveMember.
func (a *Archiver) ArchiveRenewal(ctx context.Context, tx membership.Tx, r *membership.RenewalRequest) bool {
	entry := membership.NewRenewalLedgerEntry(r, a.now())
	return a.archive(ctx, tx, membership.SourceKindRenewal, r.ID, entry)
}

func (a *Archiver) archive(ctx context.Context, tx membership.Tx, kind membership.SourceKind, sourceID uuid.UUID, entry *membership.LedgerEntry) bool {
	ctx, span := telemetry.StartServiceSpan(ctx, "archival", "project",
		telemetry.WithAttribute(telemetry.SpanAttrSourceKind, string(kind)),
		telemetry.WithAttribute(sourceAttr(kind), sourceID.String()),
	)
	defer span.End()

	err := tx.Savepoint(ctx, func(sp membership.Tx) error {
		stored, err := sp.Ledger().Upsert(ctx, entry)
		if err != nil {
			return err
		}
		telemetry.SetAttribute(span, telemetry.SpanAttrLedgerID, stored.ID.String())
		return nil
	})
	if err == nil {
		telemetry.SetOK(span)
		a.metrics.RecordArchival(ctx, string(kind), telemetry.OutcomeArchived)
		return true
	}

	telemetry.RecordError(span, err)
	a.loggerFor(ctx).Warn("ledger archival failed, queued for retry",
		zap.String(sourceAttr(kind), sourceID.String()),
		zap.Error(err),
	)
	a.metrics.RecordArchival(ctx, string(kind), telemetry.OutcomeFailed)
	a.enqueue(ctx, tx, kind, sourceID, err)
	return false
}

// enqueue stores a retry job in its own savepoint so a failure here leaves
// the caller's status write intact.
func (a *Archiver) enqueue(ctx context.Context, tx membership.Tx, kind membership.SourceKind, sourceID uuid.UUID, cause error) {
	job := membership.NewArchivalJob(kind, sourceID, cause)
	job.MaxRetries = a.maxRetries

	err := tx.Savepoint(ctx, func(sp membership.Tx) error {
		return sp.ArchivalJobs().Save(ctx, job)
	})
	if err != nil {
		a.loggerFor(ctx).Error("failed to queue archival job",
			zap.String(sourceAttr(kind), sourceID.String()),
			zap.Error(err),
		)
	}
}

func (a *Archiver) loggerFor(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l != nil && l.Core().Enabled(zap.WarnLevel) {
		return l
	}
	return a.logger
}

func sourceAttr(kind membership.SourceKind) string {
	if kind == membership.SourceKindRenewal {
		return telemetry.SpanAttrRenewalID
	}
	return telemetry.SpanAttrMemberID
}
