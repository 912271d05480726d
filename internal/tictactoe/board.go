package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const Size = 3

// Cell is the content of one square of the board.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

// Board is a 3x3 grid indexed [row][col], rows top-to-bottom.
// It is a value: copying a Board copies every cell.
type Board [Size][Size]Cell

// Action addresses one cell of the board.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// lines - every row, column and both diagonals, in the order they are checked.
var lines = [8][Size]Action{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func (that Cell) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other mark. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return Empty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

// ParseCell - accepts "X", "O" (any case) and "" for an empty cell.
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return Empty, nil
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

func (that Action) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

func (that Action) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// InitialState returns the empty board.
func InitialState() Board {
	return Board{}
}

// Player returns the mark of the side to move. X moves first.
func Player(board Board) Cell {
	numX, numO := board.count()

	if numX == numO {
		return MarkX
	}

	return MarkO
}

// Actions returns every empty cell in row-major order.
func Actions(board Board) []Action {
	actions := make([]Action, 0, Size*Size)

	for row := range Size {
		for col := range Size {
			if board[row][col] == Empty {
				actions = append(actions, Action{Row: row, Col: col})
			}
		}
	}

	return actions
}

// Result returns the board after the side to move plays action.
// The given board is never modified.
func Result(board Board, action Action) (Board, error) {
	if !action.InBounds() {
		return board, fmt.Errorf("%w: %s is out of the board", apperror.ErrInvalidAction, action)
	}

	if board[action.Row][action.Col] != Empty {
		return board, fmt.Errorf("%w: cell %s is already occupied", apperror.ErrInvalidAction, action)
	}

	next := board
	next[action.Row][action.Col] = Player(board)

	return next, nil
}

// Winner returns the mark that owns a full line, or Empty.
func Winner(board Board) Cell {
	for _, line := range lines {
		a := board[line[0].Row][line[0].Col]
		b := board[line[1].Row][line[1].Col]
		c := board[line[2].Row][line[2].Col]

		if a != Empty && a == b && b == c {
			return a
		}
	}

	return Empty
}

// Terminal reports whether the game is over: somebody won or the board is full.
func Terminal(board Board) bool {
	if Winner(board) != Empty {
		return true
	}

	for _, row := range board {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// Utility - +1 when X won, -1 when O won, 0 otherwise.
func Utility(board Board) int {
	switch Winner(board) {
	case MarkX:
		return 1
	case MarkO:
		return -1
	default:
		return 0
	}
}

// Valid reports whether the mark counts could come from alternating play.
// The queries above never call it; it is meant for boards received from outside.
func (that Board) Valid() bool {
	numX, numO := that.count()

	return numX == numO || numX == numO+1
}

func (that Board) String() string {
	var sb strings.Builder

	for i, row := range that {
		if i > 0 {
			sb.WriteByte('\n')
		}

		for _, cell := range row {
			if cell == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}

func (that Board) count() (int, int) {
	var numX, numO int

	for _, row := range that {
		for _, cell := range row {
			switch cell {
			case MarkX:
				numX++
			case MarkO:
				numO++
			}
		}
	}

	return numX, numO
}
