package ranking

import (
	"context"
	"math"
)

// PairwiseSolver fits strengths to a list of (winner, loser) index
// pairs over n contestants. alpha is a regularization weight keeping
// the problem well-posed when some contestant never wins or never
// loses.
type PairwiseSolver interface {
	Solve(ctx context.Context, n int, wins [][2]int, alpha float64) ([]float64, error)
}

// BradleyTerry ranks tracks by fitting a Bradley-Terry model to the
// win/loss list and using the fitted strengths directly as scores.
type BradleyTerry struct {
	// Solver defaults to the built-in minorization-maximization
	// solver when nil.
	Solver PairwiseSolver

	// Alpha is the regularization weight; 0 means the default.
	Alpha float64
}

const btDefaultAlpha = 0.0001

func (b *BradleyTerry) Name() string { return "bt" }

func (b *BradleyTerry) Rank(ctx context.Context, trackIDs []int64, history []Comparison) ([]Standing, error) {
	solver := b.Solver
	if solver == nil {
		solver = &mmSolver{}
	}
	alpha := b.Alpha
	if alpha <= 0 {
		alpha = btDefaultAlpha
	}

	// Map track IDs onto dense indices for the solver.
	index := make(map[int64]int, len(trackIDs))
	for i, id := range trackIDs {
		index[id] = i
	}

	var wins [][2]int
	for _, c := range history {
		first, ok := index[c.First]
		if !ok {
			continue
		}
		second, ok := index[c.Second]
		if !ok {
			continue
		}
		if c.Score > 0 {
			wins = append(wins, [2]int{first, second})
		} else {
			wins = append(wins, [2]int{second, first})
		}
	}

	strengths, err := solver.Solve(ctx, len(trackIDs), wins, alpha)
	if err != nil {
		return nil, err
	}

	standings := make([]Standing, len(trackIDs))
	for i, id := range trackIDs {
		standings[i] = Standing{TrackID: id, Score: strengths[i]}
	}
	sortStandings(standings)
	return standings, nil
}

// mmSolver fits the Bradley-Terry model by Hunter's minorization-
// maximization iterations. alpha acts as virtual comparisons spread
// across every pair, the same role the regularization weight plays in
// spectral solvers. Returned strengths are log-scale, centered at
// zero.
type mmSolver struct{}

const (
	mmMaxIterations = 10000
	mmTolerance     = 1e-8
)

func (s *mmSolver) Solve(ctx context.Context, n int, wins [][2]int, alpha float64) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}

	winCount := make([]float64, n)
	pairCount := make(map[[2]int]float64)
	for _, w := range wins {
		winner, loser := w[0], w[1]
		winCount[winner]++
		lo, hi := winner, loser
		if lo > hi {
			lo, hi = hi, lo
		}
		pairCount[[2]int{lo, hi}]++
	}

	// Regularization: alpha virtual comparisons (half won, half lost)
	// against every other contestant.
	virtualWins := alpha * float64(n-1)

	strengths := make([]float64, n)
	for i := range strengths {
		strengths[i] = 1
	}

	for iter := 0; iter < mmMaxIterations; iter++ {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		next := make([]float64, n)
		maxDelta := 0.0

		for i := 0; i < n; i++ {
			denom := 0.0
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				lo, hi := i, j
				if lo > hi {
					lo, hi = hi, lo
				}
				games := pairCount[[2]int{lo, hi}] + 2*alpha
				if games > 0 {
					denom += games / (strengths[i] + strengths[j])
				}
			}

			if denom == 0 {
				next[i] = strengths[i]
				continue
			}
			next[i] = (winCount[i] + virtualWins) / denom
		}

		// Normalize by geometric mean to pin the model's free scale.
		logSum := 0.0
		for i := range next {
			logSum += math.Log(next[i])
		}
		scale := math.Exp(logSum / float64(n))
		for i := range next {
			next[i] /= scale
			if d := math.Abs(next[i] - strengths[i]); d > maxDelta {
				maxDelta = d
			}
		}

		strengths = next
		if maxDelta < mmTolerance {
			break
		}
	}

	// Log-strengths, centered at zero by the normalization above.
	result := make([]float64, n)
	for i, s := range strengths {
		result[i] = math.Log(s)
	}
	return result, nil
}
