package ranking

import (
	"context"
	"math"
	"sort"
)

// BestFit searches for per-track ratings in [0, 1] that best reproduce
// an exponentially-decayed empirical score per compared pair. Each
// sweep refines every track by coordinate descent over three
// resolutions (tenths, hundredths, thousandths), trying eleven
// candidates per resolution and keeping the better of the two best.
// Sweeps repeat until the error stabilizes at the threshold or stops
// improving.
type BestFit struct {
	// MaxSweeps caps refinement sweeps; 0 means the default.
	MaxSweeps int
}

const (
	bestFitDecay      = 0.9
	bestFitGain       = 0.1
	bestFitSeed       = 0.5
	bestFitThreshold  = 0.1
	bestFitDefaultCap = 1000
	bestFitCandidates = 11
)

type orderedPair struct {
	first  int64
	second int64
}

func (b *BestFit) Name() string { return "bestfit" }

func (b *BestFit) Rank(ctx context.Context, trackIDs []int64, history []Comparison) ([]Standing, error) {
	maxSweeps := b.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = bestFitDefaultCap
	}

	known := idSet(trackIDs)

	// Decayed empirical score per ordered pair, seeded at 0.5 on first
	// occurrence. Only tracks that appear in history get ratings.
	scores := make(map[orderedPair]float64)
	ratings := make(map[int64]float64)

	for _, c := range history {
		if !known[c.First] || !known[c.Second] {
			continue
		}
		key := orderedPair{c.First, c.Second}
		if _, ok := scores[key]; !ok {
			scores[key] = bestFitSeed*bestFitDecay + c.Score*bestFitGain
			ratings[c.First] = bestFitSeed
			ratings[c.Second] = bestFitSeed
		} else {
			scores[key] = scores[key]*bestFitDecay + c.Score*bestFitGain
		}
	}

	ids := sortedIDs(ratings)

	// Fixed evaluation order keeps the accumulated error, and thus
	// the descent path, deterministic.
	pairs := make([]orderedPair, 0, len(scores))
	for key := range scores {
		pairs = append(pairs, key)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].first != pairs[j].first {
			return pairs[i].first < pairs[j].first
		}
		return pairs[i].second < pairs[j].second
	})

	err := fitError(ratings, scores, pairs)
	var prevErr float64
	hasPrev := false

	for sweep := 0; sweep < maxSweeps && err > bestFitThreshold && (!hasPrev || prevErr != err); sweep++ {
		if ctxErr := checkContext(ctx); ctxErr != nil {
			return nil, ctxErr
		}
		prevErr, hasPrev = err, true

		for _, id := range ids {
			base := 0.0

			for _, divisor := range []float64{10, 100, 1000} {
				bestIdx, secondIdx := -1, -1
				bestErr, secondErr := math.Inf(1), math.Inf(1)

				for i := 0; i < bestFitCandidates; i++ {
					ratings[id] = base + float64(i)/divisor
					trialErr := fitError(ratings, scores, pairs)

					switch {
					case trialErr < bestErr:
						secondIdx, secondErr = bestIdx, bestErr
						bestIdx, bestErr = i, trialErr
					case trialErr < secondErr:
						secondIdx, secondErr = i, trialErr
					}
				}

				// Taking the lower of the two best grid points damps
				// oscillation between adjacent candidates.
				step := bestIdx
				if secondIdx >= 0 && secondIdx < step {
					step = secondIdx
				}
				base += float64(step) / divisor
			}

			ratings[id] = base
		}

		err = fitError(ratings, scores, pairs)
	}

	standings := make([]Standing, 0, len(trackIDs))
	rated := make(map[int64]bool, len(ratings))
	for _, id := range ids {
		standings = append(standings, Standing{TrackID: id, Score: ratings[id]})
		rated[id] = true
	}
	for _, id := range trackIDs {
		if !rated[id] {
			standings = append(standings, Standing{TrackID: id})
		}
	}
	sortStandings(standings)
	return standings, nil
}

// fitError is the root error between each pair's decayed score and the
// win probability implied by the trial ratings, with the exponent
// damped by the pair count.
func fitError(ratings map[int64]float64, scores map[orderedPair]float64, pairs []orderedPair) float64 {
	errSum := 0.0
	count := 1

	for _, key := range pairs {
		score := scores[key]
		ra, rb := ratings[key.first], ratings[key.second]

		var predicted float64
		if (ra == 1 && rb == 1) || (ra == 0 && rb == 0) {
			predicted = 0.5
		} else {
			predicted = (ra - ra*rb) / (ra + rb - 2*ra*rb)
		}

		diff := score - predicted
		errSum += diff * diff
		count++
	}

	return math.Pow(errSum, 1/float64(count))
}
