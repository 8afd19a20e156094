package searcher

import (
	"fmt"

	"connectfour/game"

	"golang.org/x/exp/rand"
)

// Rollout scores. A playout mean always lies in [LoseScore, WinScore], so
// the fixed scores for illegal and immediately winning columns sit outside it.
const (
	WinScore          = 1.0
	LoseScore         = -5.0
	IllegalScore      = 2 * LoseScore
	ImmediateWinScore = 2 * WinScore

	// Epsilon is the tolerance under which two column scores are tied
	Epsilon = 1e-7
)

// Hyperparameters for the tree search

const CSquared = 2.0 // Exploration constant

const (
	Win  = 1.0
	Loss = 0.0
	Draw = 0.5
)

// Scoring decides how a playout that ends with a win is weighted.
type Scoring int

const (
	// Decay scales the score by (depth-ply)/depth: quick wins count more,
	// late losses count less.
	Decay Scoring = iota
	// Flat uses WinScore and LoseScore whatever the ply.
	Flat
)

func (s Scoring) String() string {
	switch s {
	case Decay:
		return "decay"
	case Flat:
		return "flat"
	default:
		return fmt.Sprintf("scoring(%d)", int(s))
	}
}

// ParseScoring maps "decay" and "flat" to their Scoring. Empty means Decay.
func ParseScoring(name string) (Scoring, error) {
	switch name {
	case "", "decay":
		return Decay, nil
	case "flat":
		return Flat, nil
	default:
		return Decay, fmt.Errorf("unknown scoring %q", name)
	}
}

// randomColumn picks a uniformly random legal column, or -1 on a full board.
func randomColumn(state *game.State, rng *rand.Rand) int {
	var buf [game.Cols]int
	legal := buf[:0]
	for col := 0; col < game.Cols; col++ {
		if !state.ColumnFull(col) {
			legal = append(legal, col)
		}
	}
	if len(legal) == 0 {
		return -1
	}
	return legal[rng.Intn(len(legal))]
}
