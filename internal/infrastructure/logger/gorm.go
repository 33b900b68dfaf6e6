package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowSQL = 200 * time.Millisecond

// SQLLogConfig configures the gorm logger
type SQLLogConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// HideParams drops bind values from logged statements. Member and
	// renewal rows carry applicant contact data.
	HideParams bool
}

// SQLLogger sends gorm's statement log to zap, tagged with the request and
// trace of the calling handler. Missing rows are an expected lookup result
// and are never logged as errors.
type SQLLogger struct {
	logger *zap.Logger
	cfg    SQLLogConfig
}

// NewSQLLogger creates a gorm logger named "gorm" under base
func NewSQLLogger(base *zap.Logger, cfg SQLLogConfig) *SQLLogger {
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = defaultSlowSQL
	}
	return &SQLLogger{logger: base.Named("gorm"), cfg: cfg}
}

// LogMode implements gormlogger.Interface
func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.cfg.Level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *SQLLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Info {
		l.with(ctx).Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Warn {
		l.with(ctx).Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *SQLLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Error {
		l.with(ctx).Sugar().Errorf(msg, data...)
	}
}

// ParamsFilter implements gorm.ParamsFilter. gorm renders the logged
// statement from what it returns.
func (l *SQLLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.cfg.HideParams {
		return sql, nil
	}
	return sql, params
}

// Trace implements gormlogger.Interface
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := elapsed > l.cfg.SlowThreshold

	switch {
	case failed && l.cfg.Level >= gormlogger.Error:
	case slow && l.cfg.Level >= gormlogger.Warn:
	case l.cfg.Level >= gormlogger.Info:
	default:
		return
	}

	sql, rows := fc()
	log := l.with(ctx)
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	switch {
	case failed && l.cfg.Level >= gormlogger.Error:
		log.Error("Query failed", append(fields, zap.Error(err))...)
	case slow && l.cfg.Level >= gormlogger.Warn:
		log.Warn("Slow query", append(fields, zap.Duration("threshold", l.cfg.SlowThreshold))...)
	default:
		log.Debug("Query", fields...)
	}
}

func (l *SQLLogger) with(ctx context.Context) *zap.Logger {
	fields := traceFields(ctx)
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if len(fields) == 0 {
		return l.logger
	}
	return l.logger.With(fields...)
}

// MapGormLogLevel maps the application log level to a gorm log level.
// SQL statements are only logged at debug.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
