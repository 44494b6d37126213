package ranking

import (
	"context"
	"math"
)

// Elo estimates ratings by iterated batch Elo: every iteration replays
// the full history accumulating expected and actual scores, then
// adjusts each track once. Iteration stops when the total absolute
// adjustment falls to the convergence threshold.
type Elo struct {
	// MaxIterations caps the replay loop; 0 means the default.
	MaxIterations int
}

const (
	eloInitial         = 1500.0
	eloK               = 32.0
	eloConvergence     = 0.01
	eloDefaultMaxIters = 10000
)

func (e *Elo) Name() string { return "elo" }

func (e *Elo) Rank(ctx context.Context, trackIDs []int64, history []Comparison) ([]Standing, error) {
	maxIters := e.MaxIterations
	if maxIters <= 0 {
		maxIters = eloDefaultMaxIters
	}

	known := idSet(trackIDs)
	ratings := make(map[int64]float64, len(trackIDs))
	for _, id := range trackIDs {
		ratings[id] = eloInitial
	}

	ids := sortedIDs(ratings)

	for iter := 0; iter < maxIters; iter++ {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		expected := make(map[int64]float64, len(ratings))
		actual := make(map[int64]float64, len(ratings))

		for _, c := range history {
			if !known[c.First] || !known[c.Second] {
				continue
			}

			qa := math.Pow(10, ratings[c.First]/400)
			qb := math.Pow(10, ratings[c.Second]/400)

			expected[c.First] += qa / (qa + qb)
			expected[c.Second] += qb / (qa + qb)
			actual[c.First] += c.Score
			actual[c.Second] += 1 - c.Score
		}

		delta := 0.0
		for _, id := range ids {
			adjustment := eloK * (actual[id] - expected[id])
			ratings[id] += adjustment
			delta += math.Abs(adjustment)
		}

		if delta <= eloConvergence {
			break
		}
	}

	standings := make([]Standing, 0, len(ratings))
	for _, id := range ids {
		standings = append(standings, Standing{TrackID: id, Score: ratings[id]})
	}
	sortStandings(standings)
	return standings, nil
}
