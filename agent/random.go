package agent

import (
	"connectfour/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// DefaultColumn is played when a random agent is asked to move on a full board.
const DefaultColumn = game.Cols / 2

const consumed = -1

// Random picks a uniformly random legal column as soon as it is asked.
type Random struct {
	rng  *rand.Rand
	next int
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed)), next: consumed}
}

func (r *Random) StartProcess(state game.State) {
	cols := state.LegalColumns()
	if len(cols) == 0 {
		log.Warn().Msgf("Random agent has no legal column, falling back to column %d", DefaultColumn+1)
		r.next = DefaultColumn
		return
	}
	r.next = cols[r.rng.Intn(len(cols))]
}

func (r *Random) Intent() Intent {
	if r.next == consumed {
		return NoIntent()
	}
	col := r.next
	r.next = consumed
	return ReadyIntent(col)
}

func (r *Random) AwaitsInput() bool {
	return false
}
