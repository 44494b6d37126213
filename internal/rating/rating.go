// Package rating implements the Glicko-style pairwise rating update
// used by the library: each comparison adjusts both sides' ratings and
// shrinks their deviations, with deviations inflated for elapsed time
// since a track was last compared.
package rating

import (
	"math"
	"time"
)

const (
	// InitialRating is the rating assigned to a track before any comparison.
	InitialRating = 1500.0

	// MaxDeviation is both the initial deviation and the ceiling for
	// time-decayed effective deviation.
	MaxDeviation = 350.0

	// decayConstant controls how fast uncertainty grows per elapsed day.
	decayConstant = 18.15682598

	// neverRatedDays is the elapsed-time prior applied to a track that
	// has never been rated.
	neverRatedDays = 364
)

var q = math.Ln10 / 400

// EffectiveDeviation inflates a stored deviation for the time elapsed
// between lastUpdate and now, capped at MaxDeviation. A nil lastUpdate
// means the track has never been rated and gets the full prior.
func EffectiveDeviation(deviation float64, lastUpdate *time.Time, now time.Time) float64 {
	days := neverRatedDays
	if lastUpdate != nil {
		days = int(now.Sub(*lastUpdate).Hours() / 24)
		if days < 0 {
			days = 0
		}
	}
	return math.Min(math.Sqrt(deviation*deviation+decayConstant*decayConstant*float64(days)), MaxDeviation)
}

// Update returns the new rating and deviation for one side of a
// comparison. score is 1 for a win and 0 for a loss; both deviations
// are effective (time-decayed) values, and the opponent's figures are
// its pre-update state.
func Update(score, rating, deviation, oppRating, oppDeviation float64) (newRating, newDeviation float64) {
	g := 1 / math.Sqrt(1+3*q*q*oppDeviation*oppDeviation/(math.Pi*math.Pi))
	e := 1 / (1 + math.Pow(10, -g*(rating-oppRating)/400))
	d2 := 1 / (q * q * g * g * e * (1 - e))

	newRating = rating + (q/(1/(deviation*deviation)+1/d2))*g*(score-e)
	newDeviation = math.Sqrt(1 / (1/(deviation*deviation) + 1/d2))
	return newRating, newDeviation
}
