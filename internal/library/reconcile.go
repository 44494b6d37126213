package library

import (
	"database/sql"
	"errors"

	"github.com/jcheval/faceoff/internal/db"
)

// reconcile resolves a recording-ID change for one file. old is the
// track currently owning the file, newID the recording ID just read
// from its tags (empty for untagged). The outcome depends on whether
// old has other files and whether another track already carries newID:
//
//	other files | newID taken | action
//	no          | no          | rename old's recording ID in place
//	no          | yes         | merge: track with fewer comparisons dies
//	yes         | no          | split: move file to a fresh track
//	yes         | yes         | reattach file to the existing track
//
// Rating state never moves between tracks; history is preserved except
// in the merge case, where Policy.ReattachComparisons decides whether
// the losing track's comparisons are re-attributed or dropped.
func (l *Library) reconcile(tx *sql.Tx, file File, old Track, newID string) error {
	var filesLeft int
	err := tx.QueryRow(`
		SELECT COUNT(*) FROM files WHERE track_id = ? AND id != ?
	`, old.ID, file.ID).Scan(&filesLeft)
	if err != nil {
		return err
	}

	existing, err := l.trackByRecordingID(tx, newID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	hasExisting := err == nil

	switch {
	case filesLeft == 0 && !hasExisting:
		l.log.Debug("rename: updating recording ID in place", "track", old.ID, "recording_id", newID)
		_, err := tx.Exec(`UPDATE tracks SET recording_id = ? WHERE id = ?`, db.NullString(newID), old.ID)
		return err

	case filesLeft == 0 && hasExisting:
		return l.merge(tx, file, old, existing, newID)

	case !hasExisting:
		// Split: the file gets a brand-new track with fresh rating
		// state; old keeps its other files and history.
		l.log.Debug("split: moving file to new track", "track", old.ID, "recording_id", newID)
		res, err := tx.Exec(`INSERT INTO tracks (recording_id) VALUES (?)`, db.NullString(newID))
		if err != nil {
			return err
		}
		newTrackID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE files SET track_id = ? WHERE id = ?`, newTrackID, file.ID)
		return err

	default:
		// Reattach only: no rating state transfers.
		l.log.Debug("reattach: moving file to existing track", "from", old.ID, "to", existing.ID)
		_, err := tx.Exec(`UPDATE files SET track_id = ? WHERE id = ?`, existing.ID, file.ID)
		return err
	}
}

// merge resolves two tracks claiming the same recording ID. The track
// with fewer comparisons is deleted; the file always ends up on the
// survivor. Ties favor the existing holder of the ID, matching the
// strict comparison below.
func (l *Library) merge(tx *sql.Tx, file File, old, existing Track, newID string) error {
	survivor, loser := existing, old
	if old.Comparisons > existing.Comparisons {
		survivor, loser = old, existing
	}

	l.log.Debug("merge: resolving duplicate recording ID",
		"survivor", survivor.ID,
		"loser", loser.ID,
		"recording_id", newID)

	// Move every file off the losing track before it is deleted, so
	// the store's cascade never takes a file with it.
	if _, err := tx.Exec(`UPDATE files SET track_id = ? WHERE track_id = ?`, survivor.ID, loser.ID); err != nil {
		return err
	}

	if l.policy.ReattachComparisons {
		if err := reattachComparisons(tx, survivor.ID, loser.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM tracks WHERE id = ?`, loser.ID); err != nil {
		return err
	}

	if survivor.ID == old.ID {
		// old survived; it takes over the recording ID freed by the
		// deletion above.
		if _, err := tx.Exec(`UPDATE tracks SET recording_id = ? WHERE id = ?`, db.NullString(newID), old.ID); err != nil {
			return err
		}
	}
	return nil
}

// reattachComparisons re-attributes the losing track's comparison
// history to the survivor. Comparisons between the two tracks would
// become self-comparisons and are dropped; surviving rows are
// re-canonicalized so first_track_id <= second_track_id, and the
// survivor's comparison counter absorbs the transferred rows.
func reattachComparisons(tx *sql.Tx, survivorID, loserID int64) error {
	var dropped int64
	err := tx.QueryRow(`
		SELECT COUNT(*) FROM comparisons
		WHERE (first_track_id = ? AND second_track_id = ?)
		   OR (first_track_id = ? AND second_track_id = ?)
	`, survivorID, loserID, loserID, survivorID).Scan(&dropped)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		DELETE FROM comparisons
		WHERE (first_track_id = ? AND second_track_id = ?)
		   OR (first_track_id = ? AND second_track_id = ?)
	`, survivorID, loserID, loserID, survivorID); err != nil {
		return err
	}

	res, err := tx.Exec(`
		UPDATE comparisons SET first_track_id = ? WHERE first_track_id = ?
	`, survivorID, loserID)
	if err != nil {
		return err
	}
	movedFirst, err := res.RowsAffected()
	if err != nil {
		return err
	}

	res, err = tx.Exec(`
		UPDATE comparisons SET second_track_id = ? WHERE second_track_id = ?
	`, survivorID, loserID)
	if err != nil {
		return err
	}
	movedSecond, err := res.RowsAffected()
	if err != nil {
		return err
	}

	// Restore canonical ordering on re-attributed rows. sqlite
	// evaluates the right-hand sides against the pre-update row, so
	// the swap is safe in one statement.
	if _, err := tx.Exec(`
		UPDATE comparisons
		SET first_track_id = second_track_id,
		    second_track_id = first_track_id,
		    score = 1.0 - score
		WHERE first_track_id > second_track_id
	`); err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE tracks SET comparisons = comparisons + ? WHERE id = ?
	`, movedFirst+movedSecond-dropped, survivorID)
	return err
}
