package library

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jcheval/faceoff/internal/db"
)

func unixUTC(n int64) time.Time {
	return time.Unix(n, 0).UTC()
}

const trackColumns = `id, recording_id, comparisons, rating, deviation, last_update`

func scanTrack(row interface{ Scan(...any) error }) (Track, error) {
	var t Track
	var recordingID sql.NullString
	var lastUpdate sql.NullInt64

	err := row.Scan(&t.ID, &recordingID, &t.Comparisons, &t.Rating, &t.Deviation, &lastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, ErrNotFound
		}
		return t, err
	}
	t.RecordingID = db.NullStringValue(recordingID)
	t.LastUpdate = db.NullUnix(lastUpdate)
	return t, nil
}

func (l *Library) trackByID(ex executor, id int64) (Track, error) {
	return scanTrack(ex.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id))
}

func (l *Library) trackByRecordingID(ex executor, recordingID string) (Track, error) {
	if recordingID == "" {
		return Track{}, ErrNotFound
	}
	return scanTrack(ex.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE recording_id = ?`, recordingID))
}

func (l *Library) fileByPath(ex executor, path string) (File, error) {
	var f File
	var lastUpdate int64

	err := ex.QueryRow(`
		SELECT id, directory_id, track_id, path, last_update, priority
		FROM files WHERE path = ?
	`, path).Scan(&f.ID, &f.DirectoryID, &f.TrackID, &f.Path, &lastUpdate, &f.Priority)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, ErrNotFound
		}
		return f, err
	}
	f.LastUpdate = unixUTC(lastUpdate)
	return f, nil
}

// TrackByID returns a track with display metadata resolved from its
// highest-priority file.
func (l *Library) TrackByID(id int64) (*Track, error) {
	t, err := l.trackByID(l.db, id)
	if err != nil {
		return nil, err
	}
	l.annotate(&t)
	return &t, nil
}

// TrackByPath returns the track owning the file at path.
func (l *Library) TrackByPath(path string) (*Track, error) {
	t, err := scanTrack(l.db.QueryRow(`
		SELECT t.`+joinedTrackColumns+`
		FROM tracks t JOIN files f ON t.id = f.track_id
		WHERE f.path = ?
	`, path))
	if err != nil {
		return nil, err
	}
	l.annotate(&t)
	return &t, nil
}

const joinedTrackColumns = `id, t.recording_id, t.comparisons, t.rating, t.deviation, t.last_update`

// Tracks returns every track that has at least one file, ordered by
// rating descending (the online ranking view).
func (l *Library) Tracks() ([]Track, error) {
	rows, err := l.db.Query(`
		SELECT ` + trackColumns + ` FROM tracks
		WHERE id IN (SELECT DISTINCT track_id FROM files)
		ORDER BY rating DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		l.annotate(&result[i])
	}
	return result, nil
}

// TrackIDs returns the IDs of all tracks with at least one file, in
// ascending order. Rank estimators use this as the candidate set.
func (l *Library) TrackIDs() ([]int64, error) {
	rows, err := l.db.Query(`
		SELECT id FROM tracks
		WHERE id IN (SELECT DISTINCT track_id FROM files)
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RatingRange returns the minimum and maximum track rating. With no
// tracks it returns the default rating for both bounds.
func (l *Library) RatingRange() (minRating, maxRating float64, err error) {
	var lo, hi sql.NullFloat64
	err = l.db.QueryRow(`SELECT MIN(rating), MAX(rating) FROM tracks`).Scan(&lo, &hi)
	if err != nil {
		return 0, 0, err
	}
	if !lo.Valid {
		return 1500, 1500, nil
	}
	return lo.Float64, hi.Float64, nil
}

// ComparisonLog returns the full comparison history in chronological
// order.
func (l *Library) ComparisonLog() ([]Comparison, error) {
	rows, err := l.db.Query(`
		SELECT id, first_track_id, second_track_id, score, timestamp
		FROM comparisons ORDER BY timestamp, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comps []Comparison
	for rows.Next() {
		var c Comparison
		var ts int64
		if err := rows.Scan(&c.ID, &c.FirstTrackID, &c.SecondTrackID, &c.Score, &ts); err != nil {
			return nil, err
		}
		c.Timestamp = unixUTC(ts)
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// annotate fills a track's display fields from its highest-priority
// file. Tag read failures leave the fields empty; Description falls
// back to the file name.
func (l *Library) annotate(t *Track) {
	path, err := l.TrackPath(t.ID)
	if err != nil {
		return
	}
	t.Path = path

	tag, err := l.readTags(path)
	if err != nil {
		return
	}
	t.Title = tag.Title
	t.Artist = tag.Artist
	t.Album = tag.Album
}

// TrackPath returns the playable path for a track, preferring its
// highest-priority file.
func (l *Library) TrackPath(id int64) (string, error) {
	var path string
	err := l.db.QueryRow(`
		SELECT path FROM files WHERE track_id = ? ORDER BY priority DESC, id LIMIT 1
	`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
