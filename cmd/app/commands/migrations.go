package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationsPath returns the migration source for a database driver.
func migrationsPath(driver string) string {
	if driver == "postgres" {
		return "file://migrations/postgresql"
	}
	return "file://migrations/mysql"
}

// migrationsURL prefixes MySQL DSNs with the scheme golang-migrate expects and enables
// multi-statement execution, which the MySQL migration files need.
func migrationsURL(driver, connectionString string) string {
	if driver != "mysql" {
		return connectionString
	}
	if !strings.Contains(connectionString, "multiStatements=") {
		separator := "?"
		if strings.Contains(connectionString, "?") {
			separator = "&"
		}
		connectionString += separator + "multiStatements=true"
	}
	return "mysql://" + connectionString
}

func newMigrate(driver, connectionString string) (*migrate.Migrate, error) {
	if driver != "mysql" && driver != "postgres" {
		return nil, fmt.Errorf("failed to create migrate instance: unsupported database driver: %s", driver)
	}
	m, err := migrate.New(migrationsPath(driver), migrationsURL(driver, connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations for the configured driver.
// Returns nil when there is nothing to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	m, err := newMigrate(driver, connectionString)
	if err != nil {
		return err
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// RunRollback reverts the last steps migrations. Rolling back the school tables
// drops all school data, so the command asks for an explicit step count.
func RunRollback(logger *slog.Logger, driver, connectionString string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	logger.Warn("rolling back database migrations",
		slog.String("driver", driver),
		slog.Int("steps", steps),
	)

	m, err := newMigrate(driver, connectionString)
	if err != nil {
		return err
	}
	defer closeMigrate(m, logger)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	logger.Info("rollback completed")
	return nil
}
