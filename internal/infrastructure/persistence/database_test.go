package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPingingMock returns a dialector whose pings must be expected explicitly.
// gorm.Open pings once on its own before Open verifies the connection.
func newPingingMock(t *testing.T) (gorm.Dialector, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), mock
}

func TestOpen(t *testing.T) {
	t.Run("pings the connection and applies pool limits", func(t *testing.T) {
		dialector, mock := newPingingMock(t)
		mock.ExpectPing()
		mock.ExpectPing()

		db, err := Open(context.Background(), dialector, &config.DatabaseConfig{
			MaxOpenConns:   7,
			MaxIdleConns:   2,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)

		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, 7, stats.MaxOpenConnections)
		assert.True(t, db.DB.Config.TranslateError)
		assert.True(t, db.DB.Config.SkipDefaultTransaction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when the ping fails", func(t *testing.T) {
		dialector, mock := newPingingMock(t)
		mock.ExpectPing()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectClose()

		db, err := Open(context.Background(), dialector, &config.DatabaseConfig{})
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "failed to ping database")
	})
}

func TestDatabase_PingAndClose(t *testing.T) {
	dialector, mock := newPingingMock(t)
	mock.ExpectPing()
	mock.ExpectPing()
	db, err := Open(context.Background(), dialector, &config.DatabaseConfig{})
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithLogger(t *testing.T) {
	cfg := &gorm.Config{}
	custom := logger.Default.LogMode(logger.Warn)
	WithLogger(custom)(cfg)
	assert.Equal(t, custom, cfg.Logger)

	WithPreparedStatements(true)(cfg)
	assert.True(t, cfg.PrepareStmt)
}
