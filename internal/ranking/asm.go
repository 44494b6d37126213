package ranking

import (
	"context"
)

// ASM is a leave-one-out heuristic estimator: a track's score on each
// comparison is adjusted by how often its opponent loses to everyone
// else, so beating a chronic loser counts for less than beating a
// strong track. Tracks never compared score zero.
type ASM struct{}

// pairTally accumulates for/against/count totals, either per ordered
// pair or per track overall.
type pairTally struct {
	forScore float64
	against  float64
	count    int
}

func (a *ASM) Name() string { return "asm" }

func (a *ASM) Rank(ctx context.Context, trackIDs []int64, history []Comparison) ([]Standing, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	known := idSet(trackIDs)

	// First pass: per-pair and per-track aggregates.
	pair := make(map[int64]map[int64]*pairTally)
	base := make(map[int64]*pairTally)

	tally := func(track, opponent int64, score float64) {
		if pair[track] == nil {
			pair[track] = make(map[int64]*pairTally)
		}
		if pair[track][opponent] == nil {
			pair[track][opponent] = &pairTally{}
		}
		if base[track] == nil {
			base[track] = &pairTally{}
		}

		p := pair[track][opponent]
		p.forScore += score
		p.against += 1 - score
		p.count++

		b := base[track]
		b.forScore += score
		b.against += 1 - score
		b.count++
	}

	for _, c := range history {
		if !known[c.First] || !known[c.Second] {
			continue
		}
		tally(c.First, c.Second, c.Score)
		tally(c.Second, c.First, 1-c.Score)
	}

	// Second pass: leave-one-out adjusted totals. A comparison only
	// contributes when both sides have history outside this pair;
	// otherwise there is nothing to estimate the opponent from.
	adjusted := make(map[int64]float64)

	for _, c := range history {
		if !known[c.First] || !known[c.Second] {
			continue
		}

		firstBase, secondBase := base[c.First], base[c.Second]
		firstPair, secondPair := pair[c.First][c.Second], pair[c.Second][c.First]

		if firstBase.count == firstPair.count || secondBase.count == secondPair.count {
			continue
		}

		firstAgainst := (firstBase.against - firstPair.against) / float64(firstBase.count-firstPair.count)
		secondAgainst := (secondBase.against - secondPair.against) / float64(secondBase.count-secondPair.count)

		adjusted[c.First] += c.Score - secondAgainst
		adjusted[c.Second] += (1 - c.Score) - firstAgainst
	}

	scores := make(map[int64]float64, len(trackIDs))
	for _, id := range trackIDs {
		scores[id] = 0
	}
	for id, sum := range adjusted {
		scores[id] = sum / float64(base[id].count)
	}

	standings := make([]Standing, 0, len(scores))
	for _, id := range sortedIDs(scores) {
		standings = append(standings, Standing{TrackID: id, Score: scores[id]})
	}
	sortStandings(standings)
	return standings, nil
}
