// Package database opens the configured SQL store and keeps its schema current.
package database

import (
	"context"
	"fmt"

	"github.com/alexivanou/calendar-core/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver for database/sql
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names registered with database/sql
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DriverName returns the database/sql driver for cfg
func DriverName(cfg config.DBConfig) string {
	if cfg.IsMemory() {
		return DriverSQLite
	}
	return DriverPostgres
}

// Connect creates a database connection based on configuration using sqlx
func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN()
	if cfg.IsMemory() {
		// Pooled SQLite connections each need foreign keys switched on
		dsn += "&_foreign_keys=on"
	}

	db, err := sqlx.ConnectContext(ctx, DriverName(cfg), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
