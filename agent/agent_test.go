package agent

import (
	"errors"
	"testing"
	"time"

	"connectfour/game"
	"connectfour/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func stateAfter(t *testing.T, cols ...int) game.State {
	t.Helper()
	s := game.NewState()
	for _, col := range cols {
		require.Equal(t, game.Pass, s.PlayCol(col).Result, "setup move in column %d should pass", col)
	}
	return s
}

func fullBoard(t *testing.T) game.State {
	t.Helper()
	var s game.State
	for i := 0; i < game.Cells; i++ {
		s.PlayCol(i % game.Cols)
	}
	require.True(t, s.Full())
	return s
}

// awaitReady polls until the agent stops waiting.
func awaitReady(t *testing.T, a Agent) Intent {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		intent := a.Intent()
		if intent.Status != Waiting {
			return intent
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("agent kept waiting")
	return Intent{}
}

func TestHuman(t *testing.T) {
	h := NewHuman()
	h.StartProcess(game.NewState())

	require.True(t, h.AwaitsInput())
	require.Equal(t, NoIntent(), h.Intent(), "Human should never decide on its own")
}

func TestRandom(t *testing.T) {
	t.Run("nothing before a start", func(t *testing.T) {
		require.Equal(t, NoIntent(), NewRandom(1).Intent())
	})

	t.Run("decision is reported once", func(t *testing.T) {
		r := NewRandom(2)
		r.StartProcess(game.NewState())

		intent := r.Intent()
		require.Equal(t, Ready, intent.Status)
		require.Equal(t, NoIntent(), r.Intent(), "Second poll should find nothing")
	})

	t.Run("only legal columns", func(t *testing.T) {
		r := NewRandom(3)
		state := stateAfter(t, 0, 0, 0, 0, 0, 0, 6, 6, 6, 6, 6, 6)
		seen := map[int]bool{}

		for i := 0; i < 200; i++ {
			r.StartProcess(state)
			seen[r.Intent().Column] = true
		}

		require.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}, seen)
	})

	t.Run("same seed same choices", func(t *testing.T) {
		a, b := NewRandom(4), NewRandom(4)
		for i := 0; i < 20; i++ {
			a.StartProcess(game.NewState())
			b.StartProcess(game.NewState())
			require.Equal(t, a.Intent(), b.Intent())
		}
	})

	t.Run("full board falls back to the middle column", func(t *testing.T) {
		r := NewRandom(5)
		r.StartProcess(fullBoard(t))

		require.Equal(t, ReadyIntent(DefaultColumn), r.Intent())
	})
}

func TestRolloutAgent(t *testing.T) {
	t.Run("takes the immediate win", func(t *testing.T) {
		a := NewRollout(1, searcher.WithIterations(20), searcher.WithRolloutMetrics())
		require.False(t, a.AwaitsInput())

		a.StartProcess(stateAfter(t, 0, 1, 0, 1, 0, 2))
		intent := awaitReady(t, a)

		require.Equal(t, ReadyIntent(0), intent)
		require.Equal(t, searcher.ImmediateWinScore, a.LastMetric().Scores[0])
		require.Equal(t, NoIntent(), a.Intent(), "Decision should be consumed")
	})

	t.Run("waits without blocking", func(t *testing.T) {
		a := NewRollout(2)
		gate := make(chan struct{})
		a.search = func(game.State, *rand.Rand) (int, searcher.SearchMetric) {
			<-gate
			return 4, searcher.SearchMetric{Playouts: 7}
		}

		a.StartProcess(game.NewState())
		for i := 0; i < 3; i++ {
			start := time.Now()
			intent := a.Intent()
			elapsed := time.Since(start)

			require.Equal(t, WaitingIntent(), intent)
			require.Less(t, elapsed, time.Millisecond, "Polling a running search should return at once")
		}

		close(gate)
		require.Equal(t, ReadyIntent(4), awaitReady(t, a))
		require.Equal(t, int64(7), a.LastMetric().Playouts)
		require.Equal(t, NoIntent(), a.Intent())
	})

	t.Run("search works on its own copy", func(t *testing.T) {
		a := NewRollout(3)
		seen := make(chan game.State, 1)
		a.search = func(state game.State, _ *rand.Rand) (int, searcher.SearchMetric) {
			state.PlayCol(0)
			seen <- state
			return 0, searcher.SearchMetric{}
		}
		state := game.NewState()

		a.StartProcess(state)
		awaitReady(t, a)

		require.Equal(t, 0, state.Moves(), "Caller's state should not change")
		searched := <-seen
		require.Equal(t, 1, searched.Moves())
	})

	t.Run("failed search panics on the polling goroutine", func(t *testing.T) {
		a := NewRollout(4)
		a.search = func(game.State, *rand.Rand) (int, searcher.SearchMetric) {
			panic("boom")
		}
		a.StartProcess(game.NewState())

		var recovered interface{}
		func() {
			defer func() { recovered = recover() }()
			awaitReady(t, a)
		}()

		err, ok := recovered.(error)
		require.True(t, ok, "Should panic with an error, got %v", recovered)
		require.True(t, errors.Is(err, ErrSearchFailed))
		require.Contains(t, err.Error(), "boom")
	})

	t.Run("starting twice panics", func(t *testing.T) {
		a := NewRollout(5)
		gate := make(chan struct{})
		a.search = func(game.State, *rand.Rand) (int, searcher.SearchMetric) {
			<-gate
			return 0, searcher.SearchMetric{}
		}
		a.StartProcess(game.NewState())

		require.Panics(t, func() { a.StartProcess(game.NewState()) })
		close(gate)
		a.Wait()
		require.Equal(t, NoIntent(), a.Intent(), "Wait should drop the outstanding result")
	})
}

func TestTreeAgent(t *testing.T) {
	a := NewTree(1, 2, searcher.WithEpisodes(1500), searcher.WithTreeMetrics())
	require.False(t, a.AwaitsInput())

	a.StartProcess(stateAfter(t, 0, 1, 0, 1, 0, 2))
	intent := awaitReady(t, a)

	require.Equal(t, ReadyIntent(0), intent, "Visits: %v", a.LastMetric().Scores)
	require.Equal(t, int64(1500), a.LastMetric().Playouts)
}

func TestNew(t *testing.T) {
	t.Run("builds every kind", func(t *testing.T) {
		for kind, expected := range map[string]Agent{
			KindHuman:   &Human{},
			KindRandom:  &Random{},
			KindRollout: &Rollout{},
			KindTree:    &Tree{},
		} {
			got, err := New(Config{Kind: kind, Seed: 1, Goroutines: 1})
			require.NoError(t, err)
			require.IsType(t, expected, got, "Kind %s", kind)
		}
	})

	t.Run("applies rollout parameters", func(t *testing.T) {
		got, err := New(Config{Kind: "Rollout", Iterations: 3, Depth: 2, Scoring: "flat", Seed: 1})
		require.NoError(t, err)

		rollout := got.(*Rollout)
		rollout.StartProcess(game.NewState())
		awaitReady(t, rollout)
		require.Equal(t, int64(3*game.Cols), rollout.LastMetric().Playouts)
	})

	t.Run("rejects unknown kinds", func(t *testing.T) {
		_, err := New(Config{Kind: "oracle"})
		require.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("rejects unknown scoring", func(t *testing.T) {
		_, err := New(Config{Kind: KindRollout, Scoring: "linear"})
		require.Error(t, err)
	})
}

func TestConfigString(t *testing.T) {
	require.Equal(t, "rollout(iterations=250 depth=5 scoring=decay)", Config{Kind: KindRollout}.String())
	require.Equal(t, "tree(episodes=100 goroutines=2 cutoff=10)",
		Config{Kind: KindTree, Episodes: 100, Goroutines: 2, Cutoff: 10}.String())
	require.Equal(t, "random", Config{Kind: "Random"}.String())
}
