package searcher

import (
	"testing"

	"connectfour/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func stateAfter(t *testing.T, cols ...int) game.State {
	t.Helper()
	s := game.NewState()
	for _, col := range cols {
		require.Equal(t, game.Pass, s.PlayCol(col).Result, "setup move in column %d should pass", col)
	}
	return s
}

// Red holds three pieces in column 0 and is to move.
func redWinsInColumn0(t *testing.T) game.State {
	return stateAfter(t, 0, 1, 0, 1, 0, 2)
}

func TestNewRollout(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := NewRollout()

		require.Equal(t, DefaultIterations, r.Iterations())
		require.Equal(t, DefaultDepth, r.Depth())
		require.Equal(t, Decay, r.scoring)
	})

	t.Run("panics on non-positive parameters", func(t *testing.T) {
		require.Panics(t, func() { NewRollout(WithIterations(0)) })
		require.Panics(t, func() { NewRollout(WithDepth(-1)) })
	})
}

func TestRolloutScores(t *testing.T) {
	t.Run("immediate win gets the fixed winning score", func(t *testing.T) {
		r := NewRollout(WithIterations(50))
		scores := r.Scores(redWinsInColumn0(t), newRNG(1))

		require.Equal(t, ImmediateWinScore, scores[0])
		for col := 1; col < game.Cols; col++ {
			require.Less(t, scores[col], ImmediateWinScore, "Column %d should score below the immediate win", col)
			require.GreaterOrEqual(t, scores[col], LoseScore, "Column %d should score within the playout range", col)
		}
	})

	t.Run("full column gets the fixed illegal score", func(t *testing.T) {
		r := NewRollout(WithIterations(50))
		state := stateAfter(t, 6, 6, 6, 6, 6, 6)
		scores := r.Scores(state, newRNG(2))

		require.Equal(t, IllegalScore, scores[6])
		for col := 0; col < 6; col++ {
			require.Greater(t, scores[col], IllegalScore, "Legal column %d should beat a full one", col)
		}
	})

	t.Run("depth of one never simulates a ply", func(t *testing.T) {
		r := NewRollout(WithIterations(10), WithDepth(1))
		scores := r.Scores(game.NewState(), newRNG(3))

		require.Equal(t, [game.Cols]float64{}, scores, "Playouts without plies should score 0")
	})

	t.Run("does not modify the searched state", func(t *testing.T) {
		state := redWinsInColumn0(t)
		before := state.Grid()

		NewRollout(WithIterations(20)).Scores(state, newRNG(4))

		require.Equal(t, before, state.Grid())
		require.Equal(t, game.Red, state.PlayerTurn())
	})
}

func TestRolloutWeight(t *testing.T) {
	decay := NewRollout(WithDepth(5))
	flat := NewRollout(WithDepth(5), WithScoring(Flat))

	require.InDelta(t, 0.8, decay.weight(1), 1e-9, "First ply should keep 4/5 of the score")
	require.InDelta(t, 0.2, decay.weight(4), 1e-9, "Last ply should keep 1/5 of the score")
	require.Equal(t, 1.0, flat.weight(1))
	require.Equal(t, 1.0, flat.weight(4))
}

func TestRolloutSearch(t *testing.T) {
	t.Run("takes the only immediate win", func(t *testing.T) {
		r := NewRollout(WithIterations(30))
		state := redWinsInColumn0(t)

		for seed := uint64(0); seed < 20; seed++ {
			col, _ := r.Search(state, newRNG(seed))
			require.Equal(t, 0, col, "Seed %d should pick the winning column", seed)
		}
	})

	t.Run("never picks a full column", func(t *testing.T) {
		r := NewRollout(WithIterations(5), WithDepth(2))
		state := stateAfter(t, 3, 3, 3, 3, 3, 3)

		for seed := uint64(0); seed < 50; seed++ {
			col, _ := r.Search(state, newRNG(seed))
			require.NotEqual(t, 3, col, "Seed %d picked a full column", seed)
		}
	})

	t.Run("blocks an opponent's vertical threat", func(t *testing.T) {
		// Yellow holds three pieces in column 2, Red has no winning move
		state := stateAfter(t, 0, 2, 6, 2, 4, 2)
		r := NewRollout(WithIterations(1000))

		col, metric := r.Search(state, newRNG(5))

		require.Equal(t, 2, col, "Red should block column 2, scores: %v", metric.Scores)
	})

	t.Run("collects metrics", func(t *testing.T) {
		r := NewRollout(WithIterations(40), WithRolloutMetrics())

		_, metric := r.Search(redWinsInColumn0(t), newRNG(6))

		require.Equal(t, int64(6*40), metric.Playouts, "Every column but the immediate win should run its playouts")
		require.LessOrEqual(t, metric.Wins+metric.Losses, metric.Playouts)
		require.Len(t, metric.Scores, game.Cols)
		require.Equal(t, ImmediateWinScore, metric.Scores[0])
	})
}

func TestPickBest(t *testing.T) {
	t.Run("single maximum", func(t *testing.T) {
		scores := []float64{-1, 0.3, 0.2, IllegalScore, 0, 0, 0}

		for seed := uint64(0); seed < 10; seed++ {
			require.Equal(t, 1, pickBest(scores, newRNG(seed)))
		}
	})

	t.Run("ties within epsilon are broken at random", func(t *testing.T) {
		scores := []float64{0.5, 0.5 - Epsilon/2, 0.1, 0.1, 0.1, 0.1, 0.5 - 2*Epsilon}
		seen := map[int]bool{}

		for seed := uint64(0); seed < 100; seed++ {
			seen[pickBest(scores, newRNG(seed))] = true
		}

		require.Equal(t, map[int]bool{0: true, 1: true}, seen, "Only the two tied columns should be picked")
	})
}
