package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Open picks the storage backend: PostgreSQL when a URL is given, the
// embedded SQLite file otherwise. The returned name tags log lines so an
// operator can tell which backend a deployment actually runs on.
func Open(databaseURL, sqlitePath string) (*sql.DB, string, error) {
	if databaseURL != "" {
		conn, err := OpenPostgres(databaseURL)
		return conn, "postgres", err
	}
	conn, err := OpenSQLite(sqlitePath)
	return conn, "sqlite", err
}

func OpenPostgres(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return conn, nil
}

func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create sqlite directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database: %w", err)
	}

	// modernc sqlite serializes writes per connection; one connection
	// avoids SQLITE_BUSY under concurrent cache writes.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection: %w", err)
	}

	return conn, nil
}
