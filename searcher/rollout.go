package searcher

import (
	"connectfour/game"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultIterations = 250
	DefaultDepth      = 5
)

type RolloutOption func(r *Rollout)

// Rollout scores every column with random playouts and keeps the best one.
type Rollout struct {
	iterations int
	depth      int
	scoring    Scoring
	metrics    Collector
}

// WithIterations sets the number of playouts per column.
func WithIterations(iterations int) RolloutOption {
	return func(r *Rollout) {
		r.iterations = iterations
	}
}

// WithDepth sets the number of plies of a playout, the candidate move included.
func WithDepth(depth int) RolloutOption {
	return func(r *Rollout) {
		r.depth = depth
	}
}

func WithScoring(scoring Scoring) RolloutOption {
	return func(r *Rollout) {
		r.scoring = scoring
	}
}

func WithRolloutMetrics() RolloutOption {
	return func(r *Rollout) {
		r.metrics = NewCollector()
	}
}

func NewRollout(options ...RolloutOption) *Rollout {
	r := &Rollout{ // Default values
		iterations: DefaultIterations,
		depth:      DefaultDepth,
		scoring:    Decay,
		metrics:    NewDummyCollector(),
	}
	for _, option := range options {
		option(r)
	}
	if r.iterations <= 0 || r.depth <= 0 {
		panic("rollout iterations and depth must be positive")
	}
	return r
}

func (r *Rollout) Iterations() int {
	return r.iterations
}

func (r *Rollout) Depth() int {
	return r.depth
}

// Search returns the best scored column for the player to move in state.
// Ties within Epsilon of the best score are broken uniformly with rng.
func (r *Rollout) Search(state game.State, rng *rand.Rand) (int, SearchMetric) {
	r.metrics.Start()
	scores := r.Scores(state, rng)
	col := pickBest(scores[:], rng)

	metric := r.metrics.Complete()
	metric.Scores = scores[:]
	return col, metric
}

// Scores returns the score of each column from the point of view of the
// player to move in state.
func (r *Rollout) Scores(state game.State, rng *rand.Rand) [game.Cols]float64 {
	me := state.PlayerTurn()
	playouts := make([]float64, r.iterations)

	var scores [game.Cols]float64
	for col := range scores {
		start := state
		switch start.PlayCol(col).Result {
		case game.Error:
			scores[col] = IllegalScore
			continue
		case game.Win:
			scores[col] = ImmediateWinScore
			continue
		}

		for i := range playouts {
			playouts[i] = r.playout(start, me, rng)
		}
		scores[col] = stat.Mean(playouts, nil)
	}
	return scores
}

// playout plays up to depth-1 random plies after the candidate move and
// scores the first win it meets. Running out of plies or of columns scores 0.
func (r *Rollout) playout(state game.State, me game.Player, rng *rand.Rand) float64 {
	r.metrics.AddPlayout()
	for ply := 1; ply < r.depth; ply++ {
		col := randomColumn(&state, rng)
		if col < 0 {
			break
		}
		if state.PlayCol(col).Result != game.Win {
			continue
		}

		// PlayCol already handed the turn over: if it is back to me, the
		// opponent just completed a line.
		if state.PlayerTurn() == me {
			r.metrics.AddLoss()
			return LoseScore * r.weight(ply)
		}
		r.metrics.AddWin()
		return WinScore * r.weight(ply)
	}
	return 0
}

func (r *Rollout) weight(ply int) float64 {
	if r.scoring == Flat {
		return 1
	}
	return float64(r.depth-ply) / float64(r.depth)
}

func pickBest(scores []float64, rng *rand.Rand) int {
	best := floats.Max(scores)
	candidates := make([]int, 0, len(scores))
	for col, score := range scores {
		if best-score <= Epsilon {
			candidates = append(candidates, col)
		}
	}
	return candidates[rng.Intn(len(candidates))]
}
