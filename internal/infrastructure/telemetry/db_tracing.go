package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultDBSystem = "postgresql"

// QueryTracing controls the spans opened for gorm statements
type QueryTracing struct {
	Enabled bool
	// WithVariables keeps bound arguments in db.statement; development only
	WithVariables bool
	SlowThreshold time.Duration
	System        string
}

// InstallQueryTracing puts otelgorm on db and decorates each statement span
// with its table and row count. Failures other than a missing row mark the
// span as errored, and statements over SlowThreshold are flagged.
func InstallQueryTracing(db *gorm.DB, cfg QueryTracing, log *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = defaultSlowQueryThreshold
	}
	if cfg.System == "" {
		cfg.System = defaultDBSystem
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.System)}
	if !cfg.WithVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to install otelgorm: %w", err)
	}

	spans := statementSpans{slow: cfg.SlowThreshold}
	for _, h := range gormHooks(db) {
		if err := h.before("tracing:stamp_"+h.op, stampQueryStart); err != nil {
			return err
		}
		if err := h.after("tracing:decorate_"+h.op, spans.decorate); err != nil {
			return err
		}
	}

	log.Info("Query tracing installed",
		zap.String("db_system", cfg.System),
		zap.Duration("slow_threshold", cfg.SlowThreshold),
		zap.Bool("with_variables", cfg.WithVariables),
	)
	return nil
}

type statementSpans struct {
	slow time.Duration
}

func (s statementSpans) decorate(tx *gorm.DB) {
	stmt := tx.Statement
	if stmt.Context == nil {
		return
	}
	span := trace.SpanFromContext(stmt.Context)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, 4)
	if stmt.RowsAffected >= 0 {
		attrs = append(attrs, attribute.Int64("db.rows_affected", stmt.RowsAffected))
	}
	if stmt.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", stmt.Table))
	}
	if err := tx.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if took, ok := queryElapsed(stmt.Context); ok && took > s.slow {
		ms := took.Milliseconds()
		attrs = append(attrs, attribute.Bool("db.slow_query", true), attribute.Int64("db.query_duration_ms", ms))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", ms),
			attribute.Int64("threshold_ms", s.slow.Milliseconds()),
		))
	}
	span.SetAttributes(attrs...)
}

type queryStartKey struct{}

// stampQueryStart records when the statement began. Tracing and metrics both
// read the stamp.
func stampQueryStart(tx *gorm.DB) {
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tx.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
}

func queryElapsed(ctx context.Context) (time.Duration, bool) {
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}
