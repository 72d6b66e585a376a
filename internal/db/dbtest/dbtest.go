// Package dbtest provides an in-process stand-in for the Observium database.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"

	"github.com/edgenative/bill95/internal/db"
	"github.com/edgenative/bill95/internal/models"
)

// Path returns a fresh SQLite file path holding the Observium tables.
func Path(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "observium.db")
	database := Open(t, path)
	if err := CreateSchema(database); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	_ = database.Close()
	return path
}

// Open opens the SQLite database at path.
func Open(t *testing.T, path string) *db.DB {
	t.Helper()
	database, err := db.Open(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return database
}

// New returns an open database with the Observium tables created.
func New(t *testing.T) *db.DB {
	t.Helper()
	database := Open(t, Path(t))
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// CreateSchema creates the subset of Observium's devices and ports tables
// that bill95 reads.
func CreateSchema(database *db.DB) error {
	if err := createDevicesTable(database); err != nil {
		return err
	}
	return createPortsTable(database)
}

func createDevicesTable(database *db.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS devices (
		device_id INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname TEXT NOT NULL,
		status INTEGER DEFAULT 1,
		disabled INTEGER DEFAULT 0
	);
	`
	_, err := database.ExecContext(context.Background(), query)
	return err
}

func createPortsTable(database *db.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS ports (
		port_id INTEGER PRIMARY KEY AUTOINCREMENT,
		device_id INTEGER NOT NULL,
		ifIndex INTEGER NOT NULL,
		ifDescr TEXT,
		ifAlias TEXT,
		ifSpeed INTEGER DEFAULT 0,
		deleted INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_ports_device ON ports(device_id);
	`
	_, err := database.ExecContext(context.Background(), query)
	return err
}

// InsertDevice adds a device and returns its id.
func InsertDevice(t *testing.T, database *db.DB, hostname string) int64 {
	t.Helper()
	res, err := database.ExecContext(context.Background(),
		"INSERT INTO devices (hostname) VALUES (?)", hostname)
	if err != nil {
		t.Fatalf("failed to insert device: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read device id: %v", err)
	}
	return id
}

// InsertPort adds a port and returns it as discovery would report it.
func InsertPort(t *testing.T, database *db.DB, deviceID int64, hostname string, ifIndex int64, ifDescr, ifAlias string) models.Port {
	t.Helper()
	res, err := database.ExecContext(context.Background(),
		"INSERT INTO ports (device_id, ifIndex, ifDescr, ifAlias) VALUES (?, ?, ?, ?)",
		deviceID, ifIndex, ifDescr, ifAlias)
	if err != nil {
		t.Fatalf("failed to insert port: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read port id: %v", err)
	}
	return models.Port{
		PortID:   id,
		DeviceID: deviceID,
		Hostname: hostname,
		IfIndex:  ifIndex,
		IfDescr:  ifDescr,
		IfAlias:  ifAlias,
	}
}
