package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// Migrator runs the embedded schema migrations against an open connection.
// It never closes the connection it was given.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator prepares migrations for the schema dialect of dbType
func NewMigrator(db *sqlx.DB, dbType config.DBType) (*Migrator, error) {
	dir := "migrations/sqlite"
	if dbType == config.DBTypePostgreSQL {
		dir = "migrations/postgres"
	}

	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}

	var (
		driver migratedb.Driver
		name   string
	)
	if dbType == config.DBTypePostgreSQL {
		name = "postgres"
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	} else {
		// Use driver instance directly to avoid DSN parsing issues with in-memory SQLite
		name = "sqlite3"
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s driver: %w", name, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Down reverts every migration
func (m *Migrator) Down() error {
	if err := m.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Version reports the applied schema version; 0 means none
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return v, dirty, nil
}

// Migrate brings the schema of db up to date
func Migrate(db *sqlx.DB, dbType config.DBType) error {
	m, err := NewMigrator(db, dbType)
	if err != nil {
		return err
	}
	return m.Up()
}
