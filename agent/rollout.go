package agent

import (
	"connectfour/game"
	"connectfour/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type searchFunc func(state game.State, rng *rand.Rand) (int, searcher.SearchMetric)

// Rollout scores every column with random playouts on a background goroutine.
type Rollout struct {
	worker
	rng    *rand.Rand
	search searchFunc
}

func NewRollout(seed uint64, options ...searcher.RolloutOption) *Rollout {
	return &Rollout{
		rng:    rand.New(rand.NewSource(seed)),
		search: searcher.NewRollout(options...).Search,
	}
}

func (a *Rollout) StartProcess(state game.State) {
	// Each search gets its own generator so the agent's stays on the caller's goroutine
	rng := rand.New(rand.NewSource(a.rng.Uint64()))
	search := a.search
	log.Debug().Msgf("Rollout search started for %s after %d moves", state.PlayerTurn(), state.Moves())
	a.spawn(func() (int, searcher.SearchMetric) {
		return search(state, rng)
	})
}

func (a *Rollout) Intent() Intent {
	return a.poll()
}

func (a *Rollout) AwaitsInput() bool {
	return false
}

func (a *Rollout) LastMetric() searcher.SearchMetric {
	return a.last
}

// Wait blocks until an outstanding search finishes and discards its result.
func (a *Rollout) Wait() {
	a.wait()
}
