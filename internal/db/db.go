// Package db opens the faceoff sqlite database and provides small
// helpers shared by the store-facing packages.
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "faceoff"
	dbFileName = "faceoff.db"
)

// DefaultPath returns the platform data path for the library database,
// creating parent directories as needed.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// LockPath returns the path of the single-writer lock file kept beside
// the database.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// Open opens the sqlite database at path with foreign keys enabled.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
