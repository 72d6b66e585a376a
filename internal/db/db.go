// Package db manages the connection to the Observium database
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"

	// MySQL driver for the Observium database
	"github.com/go-sql-driver/mysql"

	"github.com/edgenative/bill95/internal/config"
)

// ErrDatabase marks connection and query failures. They are always fatal.
var ErrDatabase = errors.New("database error")

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	driver string
}

// New opens a connection to the Observium MySQL database described by cfg.
func New(ctx context.Context, cfg config.Database) (*DB, error) {
	return Open(ctx, "mysql", DSN(cfg))
}

// DSN builds a go-sql-driver/mysql data source name.
func DSN(cfg config.Database) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	if cfg.Timeout > 0 {
		mc.Timeout = cfg.Timeout
		mc.ReadTimeout = cfg.Timeout
	}
	return mc.FormatDSN()
}

// Open opens and pings a connection using any registered driver.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrDatabase, err)
	}

	// Test connection
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to connect to database: %v", ErrDatabase, err)
	}

	// One query per run; a single connection is all we need.
	sqlDB.SetMaxOpenConns(1)

	return &DB{DB: sqlDB, driver: driver}, nil
}

// Driver returns the name of the SQL driver in use.
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
