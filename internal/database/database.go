// Package database opens the MySQL or PostgreSQL pool and scopes transactions
// through the request context.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// pingTimeout bounds the startup ping.
const pingTimeout = 5 * time.Second

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens the pool for the "mysql" or "postgres" driver and pings it once.
// The pool is closed again when the ping fails.
func Connect(cfg Config) (*sql.DB, error) {
	dsn, err := dataSourceName(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to ping database: %w", err), db.Close())
	}

	return db, nil
}

// dataSourceName checks the driver and, for MySQL, turns on parseTime so that
// DATETIME columns scan into time.Time.
func dataSourceName(driver, connectionString string) (string, error) {
	switch driver {
	case "postgres":
		return connectionString, nil
	case "mysql":
		mysqlCfg, err := mysql.ParseDSN(connectionString)
		if err != nil {
			return "", fmt.Errorf("invalid mysql connection string: %w", err)
		}
		mysqlCfg.ParseTime = true
		return mysqlCfg.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}
