package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	gosqlite3 "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DriverName is go-sqlite3 with the casefold(text) SQL function installed
// on every connection. SQLite's own lower() only folds ASCII.
const DriverName = "sqlite3_casefold"

func init() {
	sql.Register(DriverName, &gosqlite3.SQLiteDriver{
		ConnectHook: func(conn *gosqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", casefold, true)
		},
	})
}

func casefold(s string) string {
	return strings.ToLower(s)
}

// OpenSQLite opens the database at path with WAL and foreign keys enabled.
// ":memory:" is accepted for tests; the pool is then pinned to one connection
// so every query sees the same in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	}

	database, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		database.SetMaxOpenConns(1)
	}
	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return database, nil
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(database *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(database, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", verr)
	}
	log.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Database migrations applied")
	return nil
}

// OpenMigrated is OpenSQLite followed by RunMigrations.
func OpenMigrated(path string) (*sql.DB, error) {
	database, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
