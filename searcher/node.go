package searcher

import (
	"math"
	"sync"

	"connectfour/game"

	"golang.org/x/exp/rand"
)

// node is a position in the search tree. rewards are kept from the point of
// view of player, the one whose move led here, so a parent simply picks the
// child with the highest value.
type node struct {
	sync.Mutex
	parent     *node
	player     game.Player
	column     int
	unexplored []int
	explored   []int
	children   []*node
	winner     game.Player
	terminal   bool
	rewards    float64
	visits     float64
}

// newRoot returns the root for a search from state.
func newRoot(state *game.State, rng *rand.Rand) *node {
	n := &node{
		player: state.PlayerTurn().Opponent(),
		column: -1,
	}
	n.init(state, game.Pass, rng)
	return n
}

func newNode(parent *node, column int, player game.Player, state *game.State, result game.Result, rng *rand.Rand) *node {
	n := &node{
		parent: parent,
		player: player,
		column: column,
	}
	n.init(state, result, rng)
	return n
}

func (n *node) init(state *game.State, result game.Result, rng *rand.Rand) {
	switch {
	case result == game.Win:
		n.terminal = true
		n.winner = n.player
	case state.Full():
		n.terminal = true
	default:
		n.unexplored = state.LegalColumns()
		rng.Shuffle(len(n.unexplored), func(i, j int) {
			n.unexplored[i], n.unexplored[j] = n.unexplored[j], n.unexplored[i]
		})
		n.explored = make([]int, 0, len(n.unexplored))
		n.children = make([]*node, 0, len(n.unexplored))
	}
}

// selectOrExpand either expands an unexplored column or selects the best
// child by UCT. It returns the child, the state after its move and whether
// a selection (as opposed to an expansion) happened. A terminal node returns
// itself and the unchanged state.
func (n *node) selectOrExpand(state game.State, rng *rand.Rand) (*node, game.State, bool) {
	n.Lock()
	defer n.Unlock()

	if n.terminal || (len(n.unexplored) == 0 && len(n.children) == 0) {
		return n, state, false
	}

	if len(n.unexplored) > 0 { // Expandable node
		last := len(n.unexplored) - 1
		col := n.unexplored[last]
		n.unexplored = n.unexplored[:last]

		mover := state.PlayerTurn()
		result := state.PlayCol(col).Result
		child := newNode(n, col, mover, &state, result, rng)
		n.explored = append(n.explored, col)
		n.children = append(n.children, child)
		child.applyLoss()
		return child, state, false
	}

	// Fully expanded node
	child := n.children[n.pickChild()]
	child.applyLoss()
	state.PlayCol(child.column)
	return child, state, true
}

func (n *node) pickChild() int {
	policy := newUCT(CSquared, math.Max(n.visits, 1))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		if score := child.score(policy); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (n *node) score(policy *uct) float64 {
	n.Lock()
	defer n.Unlock()

	return policy.evaluate(n.rewards, n.visits)
}

// applyLoss records a temporary loss so that concurrent workers spread over
// other branches until backup reverses it.
func (n *node) applyLoss() {
	n.Lock()
	defer n.Unlock()

	n.rewards += Loss
	n.visits++
}

func (n *node) reverseLoss() {
	n.rewards -= Loss
	n.visits--
}

// backup records the playout result and returns the parent to continue with.
func (n *node) backup(winner game.Player) *node {
	n.Lock()
	defer n.Unlock()

	if n.parent != nil { // Non-root node
		n.reverseLoss()
	}
	n.rewards += reward(winner, n.player)
	n.visits++

	return n.parent
}

func (n *node) Visits() float64 {
	n.Lock()
	defer n.Unlock()

	return n.visits
}

// bestColumn returns the most visited column.
func (n *node) bestColumn() int {
	if len(n.children) == 0 {
		panic("node has no children")
	}

	best := n.children[0]
	maxVisits := best.Visits()
	for _, child := range n.children[1:] {
		if v := child.Visits(); v > maxVisits {
			maxVisits = v
			best = child
		}
	}
	return best.column
}

func reward(winner, player game.Player) float64 {
	switch winner {
	case game.None:
		return Draw
	case player:
		return Win
	default:
		return Loss
	}
}
