package agent

import (
	"connectfour/game"
	"connectfour/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Tree runs a parallel UCT search on a background goroutine.
type Tree struct {
	worker
	rng    *rand.Rand
	search searchFunc
}

func NewTree(seed uint64, goroutines int, options ...searcher.TreeOption) *Tree {
	return &Tree{
		rng:    rand.New(rand.NewSource(seed)),
		search: searcher.NewTree(goroutines, options...).Search,
	}
}

func (a *Tree) StartProcess(state game.State) {
	rng := rand.New(rand.NewSource(a.rng.Uint64()))
	search := a.search
	log.Debug().Msgf("Tree search started for %s after %d moves", state.PlayerTurn(), state.Moves())
	a.spawn(func() (int, searcher.SearchMetric) {
		return search(state, rng)
	})
}

func (a *Tree) Intent() Intent {
	return a.poll()
}

func (a *Tree) AwaitsInput() bool {
	return false
}

func (a *Tree) LastMetric() searcher.SearchMetric {
	return a.last
}

func (a *Tree) Wait() {
	a.wait()
}
