package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// ErrDirty is returned when a previous migration failed half way and the
// schema version must be fixed with Force before anything else runs.
var ErrDirty = errors.New("database schema is dirty")

type Status struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Migrator applies the numbered SQL files of migrations/ to postgres
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New reads migrations from dir and applies them through db. Closing the
// Migrator closes db too.
func New(db *sql.DB, dir string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(dir), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations in %s: %w", dir, err)
	}
	return &Migrator{m: m, logger: logger.Named("migrate")}, nil
}

// apply runs one golang-migrate operation. ErrNoChange is success; after a
// change the new version is logged.
func (m *Migrator) apply(op string, run func() error, fields ...zap.Field) error {
	err := run()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		m.logger.Info("Schema unchanged", append(fields, zap.String("op", op))...)
		return nil
	case err != nil:
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	status, err := m.Status()
	if err != nil {
		return err
	}
	m.logger.Info("Schema migrated", append(fields, zap.String("op", op), zap.Uint("version", status.Version))...)
	return nil
}

// Up applies every pending migration. A dirty schema is refused.
func (m *Migrator) Up() error {
	status, err := m.Status()
	if err != nil {
		return err
	}
	if status.Dirty {
		return fmt.Errorf("%w at version %d", ErrDirty, status.Version)
	}
	return m.apply("up", m.m.Up)
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	return m.apply("down", m.m.Down)
}

// Steps applies n migrations, rolling back when n is negative
func (m *Migrator) Steps(n int) error {
	return m.apply("step", func() error { return m.m.Steps(n) }, zap.Int("steps", n))
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	return m.apply("goto", func() error { return m.m.Migrate(version) }, zap.Uint("target", version))
}

// Status returns the applied version; a fresh database reports version 0
func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return Status{}, nil
	case err != nil:
		return Status{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Force records version without running anything. It is the only way out
// of a dirty schema.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table in the database
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping all tables")
	if err := m.m.Drop(); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}

// ApplyUp runs every pending migration on db. The server calls it when
// app.auto_migrate is set and keeps using db afterwards, so the Migrator is
// not closed.
func ApplyUp(db *sql.DB, dir string, logger *zap.Logger) error {
	m, err := New(db, dir, logger)
	if err != nil {
		return err
	}
	return m.Up()
}
