package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// DBMetricsConfig controls query and pool metrics
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
}

// DefaultDBMetricsConfig enables metrics with a 200ms slow query threshold
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{Enabled: true, SlowQueryThreshold: defaultSlowQueryThreshold}
}

// DBMetrics counts queries per operation and table and reports the
// connection pool. Pool gauges are observed at collection time.
type DBMetrics struct {
	meter  metric.Meter
	config DBMetricsConfig
	logger *zap.Logger

	queries     metric.Int64Counter
	queryErrors metric.Int64Counter
	slowQueries metric.Int64Counter
	latency     metric.Float64Histogram

	poolConns    metric.Int64ObservableGauge
	poolConnsMax metric.Int64ObservableGauge
	registration metric.Registration
}

// NewDBMetrics creates the query and pool instruments on meter
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaultSlowQueryThreshold
	}

	in := NewInstruments(meter)
	m := &DBMetrics{
		meter:  meter,
		config: cfg,
		logger: logger,

		queries:     in.Counter("db_query_total", "Database queries by operation and table", "{query}"),
		queryErrors: in.Counter("db_query_errors_total", "Failed database queries by operation", "{query}"),
		slowQueries: in.Counter("db_slow_query_total", "Queries slower than the configured threshold by table", "{query}"),
		latency:     in.Histogram("db_query_duration_seconds", "Database query latency", "s", DBDurationBuckets...),

		poolConns:    in.ObservableGauge("db_pool_connections", "Pool connections by state", "{connection}"),
		poolConnsMax: in.ObservableGauge("db_pool_connections_max", "Pool connection limit", "{connection}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ObservePool reports sqlDB's pool on every collection until Stop
func (m *DBMetrics) ObservePool(sqlDB *sql.DB) error {
	reg, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(m.poolConnsMax, int64(stats.MaxOpenConnections))
		o.ObserveInt64(m.poolConns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(m.poolConns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(m.poolConns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, m.poolConns, m.poolConnsMax)
	if err != nil {
		return err
	}
	m.registration = reg
	return nil
}

// Stop detaches the pool callback. It is safe to call more than once.
func (m *DBMetrics) Stop() {
	if m.registration == nil {
		return
	}
	if err := m.registration.Unregister(); err != nil {
		m.logger.Debug("Failed to unregister pool metrics", zap.Error(err))
	}
	m.registration = nil
}

// RecordQuery records one finished statement. A missing row is not a failure.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}
	if table == "" {
		table = "unknown"
	}
	op := AttrDBOperation.String(operation)

	m.queries.Add(ctx, 1, Attrs(op, AttrDBTable.String(table)))
	m.latency.Record(ctx, duration.Seconds(), Attrs(op))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.queryErrors.Add(ctx, 1, Attrs(op))
	}
	if duration > m.config.SlowQueryThreshold {
		m.slowQueries.Add(ctx, 1, Attrs(AttrDBTable.String(table)))
	}
}

// DBMetricsPlugin feeds gorm statements into DBMetrics
type DBMetricsPlugin struct {
	metrics *DBMetrics
}

// NewDBMetricsPlugin creates the gorm plugin
func NewDBMetricsPlugin(metrics *DBMetrics) *DBMetricsPlugin {
	return &DBMetricsPlugin{metrics: metrics}
}

// Name implements gorm.Plugin
func (p *DBMetricsPlugin) Name() string {
	return "db_metrics"
}

// Initialize implements gorm.Plugin
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	for _, h := range gormHooks(db) {
		if err := h.before("db_metrics:before_"+h.op, stampQueryStart); err != nil {
			return err
		}
		verb := operationFor(h.op)
		if err := h.after("db_metrics:after_"+h.op, func(tx *gorm.DB) {
			op := verb
			if op == "" {
				op = detectOperationType(tx.Statement.SQL.String())
			}
			p.record(tx, op)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *DBMetricsPlugin) record(tx *gorm.DB, operation string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	elapsed, _ := queryElapsed(ctx)
	p.metrics.RecordQuery(ctx, operation, tx.Statement.Table, elapsed, tx.Error)
}

// operationFor maps a gorm processor to its SQL verb. Row and raw
// statements return "" and are classified from their SQL text.
func operationFor(op string) string {
	switch op {
	case "create":
		return "INSERT"
	case "query":
		return "SELECT"
	case "update":
		return "UPDATE"
	case "delete":
		return "DELETE"
	}
	return ""
}

// detectOperationType classifies raw SQL by its leading verb
func detectOperationType(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch verb := strings.ToUpper(fields[0]); verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return verb
	}
	return "OTHER"
}

// RegisterDBMetrics installs query metrics on db and starts observing its
// pool. It returns nil when metrics are off; callers Stop the result on
// shutdown.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || !mp.IsEnabled() {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := NewDBMetrics(mp.Meter("db.client"), cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(NewDBMetricsPlugin(m)); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := m.ObservePool(sqlDB); err != nil {
		return nil, err
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold))
	return m, nil
}
