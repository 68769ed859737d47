// Package db opens the SQLite file that holds cached insights and the
// selection history, and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is a migrated SQLite handle.
type DB struct {
	*sql.DB
	path string
}

const memoryPath = ":memory:"

// Open opens (creating if needed) the database at path and applies any
// pending migrations.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("db: creating %s: %w", filepath.Dir(path), err)
	}
	return open(path, path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
}

// OpenMemory returns a private in-memory database for tests.
func OpenMemory() (*DB, error) {
	return open(memoryPath, memoryPath)
}

func open(path, dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: opening %s: %w", path, err)
	}
	if path == memoryPath {
		// Each connection to :memory: would see its own empty database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: opening %s: %w", path, err)
	}

	d := &DB{DB: conn, path: path}
	if err := d.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: migrating %s: %w", path, err)
	}
	return d, nil
}

// Path is the database file, or ":memory:".
func (d *DB) Path() string {
	return d.path
}

// Version reports the schema version recorded in user_version.
func (d *DB) Version() (int, error) {
	var v int
	err := d.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// migrate applies every migration newer than user_version, each in its own
// transaction.
func (d *DB) migrate() error {
	current, err := d.Version()
	if err != nil {
		return err
	}
	for i := current; i < len(migrations); i++ {
		tx, err := d.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// migrations are append-only; migrations[i] moves the schema to version i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS insights (
		atomic_number INTEGER NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		fun_fact TEXT NOT NULL,
		real_world_use TEXT NOT NULL,
		bonding_behavior TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY(atomic_number, model)
	);`,

	`CREATE TABLE IF NOT EXISTS selections (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		atomic_number INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'web' CHECK(source IN ('web','api','ws','cli','mcp')),
		insight_status TEXT NOT NULL DEFAULT 'pending' CHECK(insight_status IN ('pending','live','cached','fallback','stale'))
	);
	CREATE INDEX IF NOT EXISTS idx_selections_timestamp ON selections(timestamp);
	CREATE INDEX IF NOT EXISTS idx_selections_element ON selections(atomic_number);`,
}
