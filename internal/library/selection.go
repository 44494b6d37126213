package library

import (
	"database/sql"
	"errors"
)

// ratingWindow bounds the second pick to tracks of comparable
// strength, where a comparison is most informative.
const ratingWindow = 250

// NextTracks chooses two distinct tracks for the next comparison: the
// first uniformly among the least-compared tracks, the second
// uniformly among tracks within the rating window of the first (any
// other track if none qualifies). Returns an empty slice when the
// library holds fewer than two tracks. Selection never mutates state.
func (l *Library) NextTracks() ([]Track, error) {
	var count int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		return nil, err
	}
	if count < 2 {
		return nil, nil
	}

	first, err := scanTrack(l.db.QueryRow(`
		SELECT ` + trackColumns + ` FROM tracks
		WHERE comparisons = (SELECT MIN(comparisons) FROM tracks)
		ORDER BY RANDOM() LIMIT 1
	`))
	if err != nil {
		return nil, err
	}

	second, err := scanTrack(l.db.QueryRow(`
		SELECT `+trackColumns+` FROM tracks
		WHERE id != ? AND ABS(rating - ?) < ?
		ORDER BY RANDOM() LIMIT 1
	`, first.ID, first.Rating, ratingWindow))
	if errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		second, err = scanTrack(l.db.QueryRow(`
			SELECT `+trackColumns+` FROM tracks
			WHERE id != ?
			ORDER BY RANDOM() LIMIT 1
		`, first.ID))
	}
	if err != nil {
		return nil, err
	}

	l.annotate(&first)
	l.annotate(&second)
	return []Track{first, second}, nil
}
