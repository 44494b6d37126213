// Package ranking recomputes full track orderings from comparison
// history. Each estimator is an independent, read-only strategy over
// the same inputs; none touches the online per-track rating state.
package ranking

import (
	"context"
	"sort"
)

// Comparison is one pairwise judgment, canonically ordered with
// First <= Second; Score is the first slot's score (1 or 0). History
// slices are chronological.
type Comparison struct {
	First  int64
	Second int64
	Score  float64
}

// Standing is one track's estimated score in a ranking.
type Standing struct {
	TrackID int64
	Score   float64
}

// Estimator produces a total ordering of the given tracks from
// comparison history. Implementations must not mutate any shared
// state; the CPU-bound ones honor ctx cancellation between sweeps.
type Estimator interface {
	Name() string
	Rank(ctx context.Context, trackIDs []int64, history []Comparison) ([]Standing, error)
}

// sortStandings orders by score descending, ties by track ID.
func sortStandings(standings []Standing) {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].TrackID < standings[j].TrackID
	})
}

// idSet builds membership lookup for the candidate tracks; history
// rows mentioning other tracks (e.g. orphans) are ignored by the
// estimators.
func idSet(trackIDs []int64) map[int64]bool {
	set := make(map[int64]bool, len(trackIDs))
	for _, id := range trackIDs {
		set[id] = true
	}
	return set
}

// sortedIDs returns the keys of a per-track map in ascending order so
// iteration is deterministic.
func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
