package searcher

import (
	"sync"

	"connectfour/game"

	"golang.org/x/exp/rand"
)

const (
	DefaultEpisodes = 2000
	MaxCutoff       = game.Cells
)

type TreeOption func(t *Tree)

// Tree is a UCT search parallelised over a shared tree with virtual loss.
type Tree struct {
	goroutines int
	episodes   int
	cutoff     int
	metrics    Collector
}

func WithEpisodes(episodes int) TreeOption {
	return func(t *Tree) {
		if episodes > 0 {
			t.episodes = episodes
		}
	}
}

// WithCutoff bounds the number of random plies of each playout.
func WithCutoff(depth int) TreeOption {
	return func(t *Tree) {
		if depth > 0 {
			t.cutoff = depth
		}
	}
}

func WithTreeMetrics() TreeOption {
	return func(t *Tree) {
		t.metrics = NewCollector()
	}
}

func NewTree(goroutines int, options ...TreeOption) *Tree {
	t := &Tree{ // Default values
		goroutines: goroutines,
		episodes:   DefaultEpisodes,
		cutoff:     MaxCutoff,
		metrics:    NewDummyCollector(),
	}
	for _, option := range options {
		option(t)
	}
	if t.goroutines <= 0 {
		panic("tree search needs at least one goroutine")
	}
	return t
}

// Search runs the configured number of episodes from state and returns the
// most visited column. Each worker draws from its own generator seeded from
// rng. Searching a finished position is a caller error and panics.
func (t *Tree) Search(state game.State, rng *rand.Rand) (int, SearchMetric) {
	if state.Full() {
		panic("cannot search a full board")
	}

	t.metrics.Start()
	root := newRoot(&state, rng)
	t.iterate(root, state, rng)

	metric := t.metrics.Complete()
	metric.Scores = make([]float64, game.Cols)
	for _, child := range root.children {
		metric.Scores[child.column] = child.Visits()
	}
	return root.bestColumn(), metric
}

func (t *Tree) iterate(root *node, state game.State, rng *rand.Rand) {
	task := make(chan any, t.episodes)
	for i := 0; i < t.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < t.goroutines; i++ {
		wg.Add(1)
		local := rand.New(rand.NewSource(rng.Uint64()))
		go func() {
			defer wg.Done()

			for range task {
				t.simulate(root, state, local)
			}
		}()
	}

	wg.Wait()
}

func (t *Tree) simulate(root *node, state game.State, rng *rand.Rand) {
	me := state.PlayerTurn()
	leaf, leafState := selectThenExpand(root, state, rng)
	winner := leaf.winner
	if !leaf.terminal {
		winner = rollout(leafState, t.cutoff, rng)
	}

	t.metrics.AddPlayout()
	switch winner {
	case me:
		t.metrics.AddWin()
	case me.Opponent():
		t.metrics.AddLoss()
	}
	backup(leaf, winner)
}

func selectThenExpand(root *node, state game.State, rng *rand.Rand) (*node, game.State) {
	parent := root
	child, state, selected := parent.selectOrExpand(state, rng)
	for selected && child != parent {
		parent = child
		child, state, selected = parent.selectOrExpand(state, rng)
	}
	return child, state
}

// rollout plays random columns until someone wins, the board fills up or
// cutoff plies were played. None means no winner.
func rollout(state game.State, cutoff int, rng *rand.Rand) game.Player {
	for depth := 0; depth < cutoff; depth++ {
		col := randomColumn(&state, rng)
		if col < 0 {
			break
		}
		mover := state.PlayerTurn()
		if state.PlayCol(col).Result == game.Win {
			return mover
		}
	}
	return game.None
}

func backup(leaf *node, winner game.Player) {
	n := leaf
	for n != nil {
		n = n.backup(winner)
	}
}
