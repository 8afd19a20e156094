package agent

import (
	"fmt"

	"connectfour/game"
	"connectfour/searcher"
)

type Status int

const (
	// None means no decision is pending: nothing was started, the decision
	// was already consumed, or the move comes from outside (human input).
	None Status = iota
	// Waiting means a search is running. StartProcess must not be called again.
	Waiting
	// Ready means Column holds the decision. It is reported once.
	Ready
)

func (s Status) String() string {
	switch s {
	case None:
		return "none"
	case Waiting:
		return "waiting"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Intent is the non-blocking answer of an Agent about its move.
type Intent struct {
	Status Status
	Column int
}

func NoIntent() Intent {
	return Intent{Status: None}
}

func WaitingIntent() Intent {
	return Intent{Status: Waiting}
}

func ReadyIntent(col int) Intent {
	return Intent{Status: Ready, Column: col}
}

// Agent decides the moves of one player.
type Agent interface {
	// StartProcess begins deciding a move for state. It is called once per
	// turn, and never while a previous decision is still Waiting.
	StartProcess(state game.State)
	// Intent polls the decision without blocking.
	Intent() Intent
	// AwaitsInput reports whether moves come from outside the agent.
	AwaitsInput() bool
}

// Reporter is implemented by agents that can describe their last search.
type Reporter interface {
	LastMetric() searcher.SearchMetric
}

// Waiter is implemented by agents whose decision runs in the background.
type Waiter interface {
	Wait()
}

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrSearchFailed Error = "search worker failed"
	ErrUnknownKind  Error = "unknown agent kind"
)
