// Package integration runs the HTTP API against PostgreSQL in a container.
// One container serves the whole package and every test gets its own freshly
// migrated database, so tests never see each other's members or ledger rows.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mediaassoc/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

// TestDB is one migrated database inside the shared container
type TestDB struct {
	Name string
	DSN  string
}

var pg struct {
	once      sync.Once
	err       error
	container *tcpostgres.PostgresContainer
	baseDSN   string
	admin     *sql.DB
	seq       atomic.Int64
}

// NewTestDB creates and migrates a database for t and drops it on cleanup
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	pg.once.Do(func() { pg.err = startPostgres(ctx) })
	require.NoError(t, pg.err, "Failed to start PostgreSQL container")

	name := fmt.Sprintf("mediaassoc_t%d", pg.seq.Add(1))
	_, err := pg.admin.ExecContext(ctx, "CREATE DATABASE "+name)
	require.NoError(t, err, "Failed to create database %s", name)

	dsn, err := withDatabase(pg.baseDSN, name)
	require.NoError(t, err)

	sqlDB, err := openSQL(dsn)
	require.NoError(t, err, "Failed to connect to %s", name)
	require.NoError(t, migration.ApplyUp(sqlDB, migrationsDir(t), zap.NewNop()), "Failed to migrate %s", name)
	_ = sqlDB.Close()

	t.Cleanup(func() {
		if _, err := pg.admin.ExecContext(context.Background(), "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			t.Logf("Failed to drop %s: %v", name, err)
		}
	})
	return &TestDB{Name: name, DSN: dsn}
}

func startPostgres(ctx context.Context) error {
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("postgres"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("integration"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return err
	}
	pg.container = container

	if pg.baseDSN, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
		return err
	}
	pg.admin, err = openSQL(pg.baseDSN)
	return err
}

// stopPostgres terminates the shared container, if one was started
func stopPostgres() {
	if pg.admin != nil {
		_ = pg.admin.Close()
	}
	if pg.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = pg.container.Terminate(ctx)
}

func openSQL(dsn string) (*sql.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}
	return db.DB()
}

// withDatabase points a postgres:// URL at another database
func withDatabase(dsn, name string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	u.Path = "/" + name
	return u.String(), nil
}

// migrationsDir finds migrations/ above this file
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	for dir := filepath.Dir(file); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	require.Fail(t, "migrations directory not found above "+file)
	return ""
}
