package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Archival outcomes
const (
	OutcomeArchived = "archived"
	OutcomeFailed   = "failed"
	OutcomeRetried  = "retried"
	OutcomeDead     = "dead"
)

// Import row results
const (
	ImportResultImported = "imported"
	ImportResultSkipped  = "skipped"
)

// MembershipMetrics tracks status reviews, ledger archival and imports.
type MembershipMetrics struct {
	logger *zap.Logger

	statusUpdatesTotal metric.Int64Counter
	archivalTotal      metric.Int64Counter
	importRowsTotal    metric.Int64Counter
	archivalJobs       metric.Int64Gauge

	statsProvider ArchivalStatsProvider

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// ArchivalStatsProvider reports how many archival jobs sit in each status.
type ArchivalStatsProvider interface {
	CountArchivalJobsByStatus(ctx context.Context) (map[string]int64, error)
}

// MembershipMetricsConfig holds configuration for membership metrics.
type MembershipMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StatsProvider ArchivalStatsProvider
}

// NewMembershipMetrics creates the membership instruments on cfg.Meter.
func NewMembershipMetrics(cfg MembershipMetricsConfig) (*MembershipMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mm := &MembershipMetrics{
		logger:        logger,
		statsProvider: cfg.StatsProvider,
		stopChan:      make(chan struct{}),
	}

	in := NewInstruments(cfg.Meter)
	mm.statusUpdatesTotal = in.Counter("membership_status_updates_total",
		"Total number of accepted status changes", "{update}")
	mm.archivalTotal = in.Counter("membership_archival_total",
		"Ledger archival attempts by source kind and outcome", "{projection}")
	mm.importRowsTotal = in.Counter("ledger_import_rows_total",
		"Rows read by bulk ledger imports", "{row}")
	mm.archivalJobs = in.Gauge("membership_archival_jobs",
		"Archival retry jobs by status", "{job}")
	if err := in.Err(); err != nil {
		return nil, err
	}

	return mm, nil
}

// RecordStatusUpdate counts one accepted status change
func (mm *MembershipMetrics) RecordStatusUpdate(ctx context.Context, kind, status string) {
	mm.statusUpdatesTotal.Add(ctx, 1, Attrs(AttrSourceKind.String(kind), AttrStatus.String(status)))
}

// RecordArchival counts one archival attempt
func (mm *MembershipMetrics) RecordArchival(ctx context.Context, kind, outcome string) {
	mm.archivalTotal.Add(ctx, 1, Attrs(AttrSourceKind.String(kind), AttrOutcome.String(outcome)))
}

// RecordImportRows counts the imported and skipped rows of one import
func (mm *MembershipMetrics) RecordImportRows(ctx context.Context, imported, skipped int) {
	if imported > 0 {
		mm.importRowsTotal.Add(ctx, int64(imported), Attrs(AttrImportResult.String(ImportResultImported)))
	}
	if skipped > 0 {
		mm.importRowsTotal.Add(ctx, int64(skipped), Attrs(AttrImportResult.String(ImportResultSkipped)))
	}
}

// StartPeriodicCollection records the archival job gauge every interval
// (default 1 minute) until Stop is called or ctx ends. It is non-blocking
// and only the first call starts a collector.
func (mm *MembershipMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	mm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		mm.wg.Add(1)
		go mm.runPeriodicCollection(ctx, interval)
	})
}

func (mm *MembershipMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	defer mm.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mm.collectArchivalJobs(ctx)

	for {
		select {
		case <-mm.stopChan:
			mm.logger.Info("Stopping periodic membership metrics collection")
			return
		case <-ctx.Done():
			mm.logger.Info("Context cancelled, stopping periodic membership metrics collection")
			return
		case <-ticker.C:
			mm.collectArchivalJobs(ctx)
		}
	}
}

func (mm *MembershipMetrics) collectArchivalJobs(ctx context.Context) {
	if mm.statsProvider == nil {
		mm.logger.Debug("No archival stats provider configured, skipping collection")
		return
	}

	counts, err := mm.statsProvider.CountArchivalJobsByStatus(ctx)
	if err != nil {
		mm.logger.Warn("Failed to count archival jobs", zap.Error(err))
		return
	}
	for status, n := range counts {
		mm.archivalJobs.Record(ctx, n, Attrs(AttrJobStatus.String(status)))
	}
}

// Stop ends periodic collection and waits for the collector to exit.
func (mm *MembershipMetrics) Stop() {
	mm.stopOnce.Do(func() {
		close(mm.stopChan)
	})
	mm.wg.Wait()
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewMembershipMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
