package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jcheval/faceoff/internal/db"
)

// executor abstracts *sql.DB and *sql.Tx for helpers used both inside
// and outside transactions.
type executor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// ScanStats summarizes one scan pass.
type ScanStats struct {
	Added   int
	Updated int
	Removed int
}

// ScanDirectories reconciles the store with the filesystem: new files
// are ingested, files with advanced modification times are re-read and
// their track identity reconciled, and files missing from disk are
// pruned. A store error aborts the scan; the file being processed at
// the time is left untouched (each file commits in its own
// transaction).
func (l *Library) ScanDirectories() (ScanStats, error) {
	start := l.now()
	var stats ScanStats

	dirs, err := l.Directories()
	if err != nil {
		return stats, fmt.Errorf("list directories: %w", err)
	}

	for _, dir := range dirs {
		l.log.Debug("scanning directory", "path", dir.Path)

		for _, f := range discoverFiles(dir.Path) {
			stored, err := l.fileByPath(l.db, f.path)
			switch {
			case errors.Is(err, ErrNotFound):
				if err := l.ingestFile(dir.ID, f); err != nil {
					return stats, fmt.Errorf("ingest %s: %w", f.path, err)
				}
				stats.Added++
			case err != nil:
				return stats, fmt.Errorf("lookup %s: %w", f.path, err)
			// The stored mtime has whole-second precision, so the
			// on-disk time is truncated before comparing; otherwise
			// sub-second mtimes would refresh every file on every
			// scan.
			case f.mtime.Truncate(time.Second).After(stored.LastUpdate):
				if err := l.refreshFile(stored, f.mtime); err != nil {
					return stats, fmt.Errorf("refresh %s: %w", f.path, err)
				}
				stats.Updated++
			}
		}
	}

	removed, err := l.pruneMissing()
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Removed = removed

	l.log.Info("scan complete",
		"added", stats.Added,
		"updated", stats.Updated,
		"removed", stats.Removed,
		"elapsed", l.now().Sub(start))
	return stats, nil
}

// ingestFile adds a newly discovered file. If its tags carry a
// recording ID already owned by a track, the file attaches to that
// track; otherwise a fresh track is created.
func (l *Library) ingestFile(directoryID int64, f discovered) error {
	recordingID := l.readRecordingID(f.path)

	return db.WithTx(l.db, func(tx *sql.Tx) error {
		trackID, err := l.resolveTrack(tx, recordingID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO files (directory_id, track_id, path, last_update)
			VALUES (?, ?, ?, ?)
		`, directoryID, trackID, f.path, f.mtime.Unix())
		if err != nil && isUniqueViolation(err) {
			// Concurrent registration of the same path; treat as seen.
			return nil
		}
		return err
	})
}

// resolveTrack returns the track owning recordingID, creating a new
// track (tagged or untagged) when none exists.
func (l *Library) resolveTrack(tx *sql.Tx, recordingID string) (int64, error) {
	if recordingID != "" {
		var id int64
		err := tx.QueryRow(`SELECT id FROM tracks WHERE recording_id = ?`, recordingID).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
	}

	res, err := tx.Exec(`INSERT INTO tracks (recording_id) VALUES (?)`, db.NullString(recordingID))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// refreshFile re-reads tags for a file whose modification time has
// advanced and reconciles its track identity if the recording ID
// changed.
func (l *Library) refreshFile(stored File, mtime time.Time) error {
	recordingID := l.readRecordingID(stored.Path)

	return db.WithTx(l.db, func(tx *sql.Tx) error {
		track, err := l.trackByID(tx, stored.TrackID)
		if err != nil {
			return err
		}

		if recordingID != track.RecordingID {
			l.log.Debug("recording ID changed",
				"path", stored.Path,
				"old", track.RecordingID,
				"new", recordingID)
			if err := l.reconcile(tx, stored, track, recordingID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(`UPDATE files SET last_update = ? WHERE id = ?`, mtime.Unix(), stored.ID)
		return err
	})
}

// pruneMissing deletes file rows whose paths no longer exist on disk.
// Tracks left with zero files are deleted only under
// Policy.DeleteOrphanedTracks; by default they keep their rating
// history in case the files reappear.
func (l *Library) pruneMissing() (int, error) {
	rows, err := l.db.Query(`SELECT id, track_id, path FROM files`)
	if err != nil {
		return 0, err
	}

	type candidate struct {
		id      int64
		trackID int64
	}
	var missing []candidate
	for rows.Next() {
		var c candidate
		var path string
		if err := rows.Scan(&c.id, &c.trackID, &path); err != nil {
			rows.Close()
			return 0, err
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			missing = append(missing, c)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, c := range missing {
		err := db.WithTx(l.db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(`DELETE FROM files WHERE id = ?`, c.id); err != nil {
				return err
			}
			if !l.policy.DeleteOrphanedTracks {
				return nil
			}

			var remaining int
			if err := tx.QueryRow(`SELECT COUNT(*) FROM files WHERE track_id = ?`, c.trackID).Scan(&remaining); err != nil {
				return err
			}
			if remaining == 0 {
				l.log.Debug("deleting orphaned track", "track", c.trackID)
				if _, err := tx.Exec(`DELETE FROM tracks WHERE id = ?`, c.trackID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	return len(missing), nil
}

// readRecordingID reads the recording ID from a file's tags. A tag
// read failure means the file is treated as untagged, never as a scan
// error.
func (l *Library) readRecordingID(path string) string {
	t, err := l.readTags(path)
	if err != nil {
		l.log.Debug("unreadable tags", "path", path, "error", err)
		return ""
	}
	return t.RecordingID
}
