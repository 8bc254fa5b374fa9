package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsTable = "inkpost_schema_migrations"

// Migrate applies all pending migrations. Being at the latest version is
// not an error.
func Migrate(databaseURL string) error {
	return runMigrations(databaseURL, "up", (*migrate.Migrate).Up)
}

// MigrateDown rolls back every migration. Tests use it to reset the schema.
func MigrateDown(databaseURL string) error {
	return runMigrations(databaseURL, "down", (*migrate.Migrate).Down)
}

// runMigrations drives golang-migrate over a database/sql handle opened
// with lib/pq. The request path uses pgxpool; migrations run once at
// startup and never share its pool.
func runMigrations(databaseURL, direction string, step func(*migrate.Migrate) error) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("migrate open: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("migrate new: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
