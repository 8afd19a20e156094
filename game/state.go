package game

import "strings"

// memory packs who started the current game and who is to move, so that
// Restart can hand the first move to the other player without extra fields.
// Names read {starter}{mover}.
type memory uint8

const (
	redRed memory = iota
	redYellow
	yellowRed
	yellowYellow
)

func (m memory) mover() Player {
	switch m {
	case redRed, yellowRed:
		return Red
	default:
		return Yellow
	}
}

func (m memory) starter() Player {
	switch m {
	case redRed, redYellow:
		return Red
	default:
		return Yellow
	}
}

func (m memory) next() memory {
	switch m {
	case redRed:
		return redYellow
	case redYellow:
		return redRed
	case yellowRed:
		return yellowYellow
	default:
		return yellowRed
	}
}

func (m memory) restart() memory {
	if m.starter() == Red {
		return yellowYellow
	}
	return redRed
}

// State is the board plus the turn memory. It is small and meant to be
// copied by value: a copy never shares anything with the original.
// The zero value is an empty board with Red to move.
type State struct {
	turn memory
	grid [Cells]Player
}

var directions = [...]Position{
	{Col: 0, Row: 1}, // vertical
	{Col: 1, Row: 0}, // horizontal
	{Col: 1, Row: 1},
	{Col: 1, Row: -1},
}

// NewState returns an empty board with Red to move.
func NewState() State {
	return State{}
}

// PlayCol drops the mover's piece into col. A full or out of range column
// yields Error and leaves the state untouched.
func (s *State) PlayCol(col int) Outcome {
	if col < 0 || col >= Cols {
		return Outcome{Result: Error}
	}
	height := s.ColumnHeight(col)
	if height == Rows {
		return Outcome{Result: Error}
	}

	placed := Position{Col: col, Row: height}
	player := s.turn.mover()
	s.grid[placed.index()] = player
	s.turn = s.turn.next()

	if line, ok := s.lineThrough(placed, player); ok {
		return Outcome{Result: Win, Line: line}
	}
	return Outcome{Result: Pass}
}

// Play is PlayCol for callers that prefer an error value over an Error outcome.
func (s *State) Play(col int) (Outcome, error) {
	if col < 0 || col >= Cols {
		return Outcome{Result: Error}, ErrColumnOutOfRange
	}
	outcome := s.PlayCol(col)
	if outcome.Result == Error {
		return outcome, ErrColumnFull
	}
	return outcome, nil
}

// lineThrough only looks at the lines crossing the placed piece: at most
// ToWin-1 steps backward, then whatever is left forward.
func (s *State) lineThrough(placed Position, player Player) (Line, bool) {
	for _, dir := range directions {
		back := s.run(placed, player, Position{Col: -dir.Col, Row: -dir.Row}, ToWin-1)
		forward := s.run(placed, player, dir, ToWin-1-back)
		if back+forward == ToWin-1 {
			return Line{
				Start: Position{Col: placed.Col - back*dir.Col, Row: placed.Row - back*dir.Row},
				End:   Position{Col: placed.Col + forward*dir.Col, Row: placed.Row + forward*dir.Row},
			}, true
		}
	}
	return Line{}, false
}

// run counts the consecutive cells of player next to from along dir, up to limit.
func (s *State) run(from Position, player Player, dir Position, limit int) int {
	steps := 0
	pos := from
	for steps < limit {
		pos = Position{Col: pos.Col + dir.Col, Row: pos.Row + dir.Row}
		if !pos.inBounds() || s.grid[pos.index()] != player {
			break
		}
		steps++
	}
	return steps
}

// ColumnHeight returns how many pieces col holds. Columns are always filled
// from the bottom, so counting up to the first empty cell is enough.
// A column outside the board accepts nothing and reports Rows.
func (s *State) ColumnHeight(col int) int {
	if col < 0 || col >= Cols {
		return Rows
	}
	base := col * Rows
	height := 0
	for height < Rows && s.grid[base+height] != None {
		height++
	}
	return height
}

func (s *State) ColumnFull(col int) bool {
	return s.ColumnHeight(col) == Rows
}

// LegalColumns lists the columns that still accept a piece, in order.
func (s *State) LegalColumns() []int {
	cols := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if !s.ColumnFull(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

// Full reports whether no column accepts a piece anymore.
func (s *State) Full() bool {
	for col := 0; col < Cols; col++ {
		if !s.ColumnFull(col) {
			return false
		}
	}
	return true
}

// Moves returns the number of pieces on the board.
func (s *State) Moves() int {
	count := 0
	for _, cell := range s.grid {
		if cell != None {
			count++
		}
	}
	return count
}

// Grid returns a copy of the cells in column-major order (col*Rows + row).
func (s *State) Grid() [Cells]Player {
	return s.grid
}

// Cell returns the piece at (col, row), None when empty or out of bounds.
func (s *State) Cell(col, row int) Player {
	pos := Position{Col: col, Row: row}
	if !pos.inBounds() {
		return None
	}
	return s.grid[pos.index()]
}

func (s *State) PlayerTurn() Player {
	return s.turn.mover()
}

// Starter returns the player who made the first move of the current game.
func (s *State) Starter() Player {
	return s.turn.starter()
}

// Restart empties the board and gives the first move to the player who did
// not start the previous game.
func (s *State) Restart() {
	s.grid = [Cells]Player{}
	s.turn = s.turn.restart()
}

// String draws the board top row first, followed by the 1-based column numbers.
func (s State) String() string {
	var b strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Cols; col++ {
			switch s.grid[Position{Col: col, Row: row}.index()] {
			case Red:
				b.WriteString(" R")
			case Yellow:
				b.WriteString(" Y")
			default:
				b.WriteString(" .")
			}
		}
		b.WriteByte('\n')
	}
	for col := 1; col <= Cols; col++ {
		b.WriteByte(' ')
		b.WriteByte(byte('0' + col))
	}
	b.WriteByte('\n')
	return b.String()
}
