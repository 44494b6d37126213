package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcheval/faceoff/internal/db"
	"github.com/jcheval/faceoff/internal/rating"
)

// UpdatePlaying records that winnerID beat each track in loserIDs.
// Every (winner, loser) pair is handled independently: one immutable
// comparison row is inserted and both sides' ratings are recomputed
// from each other's pre-update state, committed atomically per pair.
func (l *Library) UpdatePlaying(winnerID int64, loserIDs []int64) error {
	if len(loserIDs) == 0 {
		return errors.New("library: update requires at least one losing track")
	}

	for _, loserID := range loserIDs {
		if loserID == winnerID {
			return fmt.Errorf("library: track %d cannot lose to itself", winnerID)
		}
		if err := l.updatePair(winnerID, loserID); err != nil {
			return fmt.Errorf("update pair (%d, %d): %w", winnerID, loserID, err)
		}
	}
	return nil
}

func (l *Library) updatePair(winnerID, loserID int64) error {
	now := l.now().UTC()

	// Canonical storage order: first <= second by track ID.
	firstID, secondID := winnerID, loserID
	firstScore := 1.0
	if loserID < winnerID {
		firstID, secondID = loserID, winnerID
		firstScore = 0.0
	}

	return db.WithTx(l.db, func(tx *sql.Tx) error {
		first, err := l.trackByID(tx, firstID)
		if err != nil {
			return err
		}
		second, err := l.trackByID(tx, secondID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO comparisons (first_track_id, second_track_id, score, timestamp)
			VALUES (?, ?, ?, ?)
		`, firstID, secondID, firstScore, now.Unix())
		if err != nil {
			return err
		}

		firstDev := rating.EffectiveDeviation(first.Deviation, first.LastUpdate, now)
		secondDev := rating.EffectiveDeviation(second.Deviation, second.LastUpdate, now)

		firstRating, firstNewDev := rating.Update(firstScore, first.Rating, firstDev, second.Rating, secondDev)
		secondRating, secondNewDev := rating.Update(1-firstScore, second.Rating, secondDev, first.Rating, firstDev)

		for _, side := range []struct {
			id        int64
			rating    float64
			deviation float64
		}{
			{firstID, firstRating, firstNewDev},
			{secondID, secondRating, secondNewDev},
		} {
			_, err := tx.Exec(`
				UPDATE tracks
				SET comparisons = comparisons + 1, rating = ?, deviation = ?, last_update = ?
				WHERE id = ?
			`, side.rating, side.deviation, db.UnixOrNull(&now), side.id)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
