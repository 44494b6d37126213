package library

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS directories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recording_id TEXT UNIQUE,
			comparisons INTEGER NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 1500,
			deviation REAL NOT NULL DEFAULT 350,
			last_update INTEGER
		);

		CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			directory_id INTEGER NOT NULL REFERENCES directories(id) ON UPDATE CASCADE ON DELETE CASCADE,
			track_id INTEGER NOT NULL REFERENCES tracks(id) ON UPDATE CASCADE ON DELETE CASCADE,
			path TEXT NOT NULL UNIQUE,
			last_update INTEGER NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_files_track ON files(track_id);
		CREATE INDEX IF NOT EXISTS idx_files_directory ON files(directory_id);

		CREATE TABLE IF NOT EXISTS comparisons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_track_id INTEGER NOT NULL REFERENCES tracks(id) ON UPDATE CASCADE ON DELETE CASCADE,
			second_track_id INTEGER NOT NULL REFERENCES tracks(id) ON UPDATE CASCADE ON DELETE CASCADE,
			score REAL NOT NULL,
			timestamp INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_comparisons_first ON comparisons(first_track_id);
		CREATE INDEX IF NOT EXISTS idx_comparisons_second ON comparisons(second_track_id);
		CREATE INDEX IF NOT EXISTS idx_comparisons_timestamp ON comparisons(timestamp);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
