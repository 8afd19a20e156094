package game

const (
	Cols  = 7
	Rows  = 6
	ToWin = 4

	// Cells is the number of cells on the board
	Cells = Cols * Rows
)

// Player identifies a piece color. None marks an empty cell.
type Player uint8

const (
	None Player = iota
	Red
	Yellow
)

func (p Player) String() string {
	switch p {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	default:
		return "none"
	}
}

// Opponent returns the other color. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Yellow
	case Yellow:
		return Red
	default:
		return None
	}
}

// Position is a board coordinate, row 0 being the bottom row.
type Position struct {
	Col int
	Row int
}

func (p Position) inBounds() bool {
	return p.Col >= 0 && p.Col < Cols && p.Row >= 0 && p.Row < Rows
}

func (p Position) index() int {
	return p.Col*Rows + p.Row
}

// Line holds both ends of a winning run.
type Line struct {
	Start Position
	End   Position
}

type Result int

const (
	Pass Result = iota
	Error
	Win
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "pass"
	case Error:
		return "error"
	case Win:
		return "win"
	default:
		return "unknown"
	}
}

// Outcome is returned by PlayCol. Line is only set when Result is Win.
type Outcome struct {
	Result Result
	Line   Line
}

// RuleError is returned by Play when a move breaks the rules.
type RuleError string

func (e RuleError) Error() string {
	return string(e)
}

const (
	ErrColumnFull       RuleError = "column is full"
	ErrColumnOutOfRange RuleError = "column out of range"
)
