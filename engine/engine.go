package engine

import (
	"context"
	"fmt"
	"time"

	"connectfour/agent"
	"connectfour/experiments/metrics"
	"connectfour/game"

	"github.com/rs/zerolog/log"
)

const DefaultTick = 16 * time.Millisecond

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrIllegalMove = Error("agent played an illegal move")
	ErrNoDecision  = Error("agent has no pending decision")
	ErrInputClosed = Error("input closed")
	ErrGameOver    = Error("game is over, restart first")
)

// Move is reported to the OnMove hook after every applied column.
type Move struct {
	Player  game.Player
	Column  int
	Outcome game.Outcome
	State   game.State
}

// Result of a single game. Line is only meaningful when Winner is not None.
type Result struct {
	Winner game.Player
	Line   game.Line
	Game   metrics.GameMetric
	Moves  []metrics.MoveMetric
}

type Option func(e *Engine)

// WithTick sets how often agents are polled for their decision.
func WithTick(tick time.Duration) Option {
	return func(e *Engine) {
		if tick > 0 {
			e.tick = tick
		}
	}
}

// WithInput supplies the 0-based columns played by agents that await input.
func WithInput(input <-chan int) Option {
	return func(e *Engine) {
		e.input = input
	}
}

func WithState(state game.State) Option {
	return func(e *Engine) {
		e.state = state
		e.over = false
	}
}

func WithOnMove(onMove func(Move)) Option {
	return func(e *Engine) {
		e.onMove = onMove
	}
}

// Engine drives a game between two agents. It is not safe for concurrent use.
type Engine struct {
	state  game.State
	red    agent.Agent
	yellow agent.Agent
	tick   time.Duration
	input  <-chan int
	onMove func(Move)
	over   bool
}

func New(red, yellow agent.Agent, options ...Option) *Engine {
	if red == nil || yellow == nil {
		panic("engine needs an agent for each player")
	}

	e := &Engine{
		state:  game.NewState(),
		red:    red,
		yellow: yellow,
		tick:   DefaultTick,
		onMove: func(Move) {},
	}
	for _, option := range options {
		option(e)
	}

	if (red.AwaitsInput() || yellow.AwaitsInput()) && e.input == nil {
		panic("engine needs an input channel for agents that await input")
	}
	return e
}

// State returns a copy of the current board.
func (e *Engine) State() game.State {
	return e.state
}

// Restart clears the board. The other player starts the next game.
func (e *Engine) Restart() {
	e.state.Restart()
	e.over = false
}

func (e *Engine) agentFor(player game.Player) agent.Agent {
	if player == game.Red {
		return e.red
	}
	return e.yellow
}

// Run plays from the current state until a player wins or the board is full.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.over {
		return Result{}, ErrGameOver
	}
	result := Result{
		Game: metrics.GameMetric{
			StartingPlayer: e.state.Starter(),
			StartTime:      time.Now(),
		},
	}
	log.Info().Msgf("%s is starting", e.state.PlayerTurn())

	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for step := 1; !e.state.Full(); step++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		player := e.state.PlayerTurn()
		a := e.agentFor(player)

		started := time.Now()
		a.StartProcess(e.state)
		col, err := e.decide(ctx, a, ticker)
		if err != nil {
			return result, err
		}

		outcome := e.state.PlayCol(col)
		if outcome.Result == game.Error {
			return result, fmt.Errorf("%w: %s chose column %d", ErrIllegalMove, player, col+1)
		}

		move := metrics.MoveMetric{
			Step:      step,
			Player:    player,
			Column:    col,
			ThinkTime: time.Since(started),
		}
		if reporter, ok := a.(agent.Reporter); ok {
			move.SearchMetric = reporter.LastMetric()
		}
		result.Moves = append(result.Moves, move)
		log.Debug().Msgf("%s played column %d after %s", player, col+1, move.ThinkTime)
		e.onMove(Move{Player: player, Column: col, Outcome: outcome, State: e.state})

		if outcome.Result == game.Win {
			result.Winner = player
			result.Line = outcome.Line
			break
		}
	}

	e.over = true
	result.Game.Winner = result.Winner
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = len(result.Moves)

	if result.Winner == game.None {
		log.Info().Msgf("game ended in a draw after %d moves", result.Game.TotalMoves)
	} else {
		log.Info().Msgf("%s won after %d moves", result.Winner, result.Game.TotalMoves)
	}
	return result, nil
}

// RunSeries plays games in a row, restarting the board between them.
func (e *Engine) RunSeries(ctx context.Context, games int) ([]Result, error) {
	results := make([]Result, 0, games)
	for i := 0; i < games; i++ {
		if i > 0 {
			e.Restart()
		}
		result, err := e.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("game %d of %d: %w", i+1, games, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *Engine) decide(ctx context.Context, a agent.Agent, ticker *time.Ticker) (int, error) {
	if a.AwaitsInput() {
		return e.readInput(ctx)
	}

	for {
		intent := a.Intent()
		switch intent.Status {
		case agent.Ready:
			return intent.Column, nil
		case agent.None:
			return 0, ErrNoDecision
		}

		select {
		case <-ctx.Done():
			// The search cannot be stopped, so wait for it to let go of its goroutine
			if w, ok := a.(agent.Waiter); ok {
				w.Wait()
			}
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) readInput(ctx context.Context) (int, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case col, ok := <-e.input:
			if !ok {
				return 0, ErrInputClosed
			}
			if col < 0 || col >= game.Cols {
				log.Warn().Msgf("ignoring column %d, columns are 1 to %d", col+1, game.Cols)
				continue
			}
			if e.state.ColumnFull(col) {
				log.Warn().Msgf("ignoring column %d, it is full", col+1)
				continue
			}
			return col, nil
		}
	}
}
