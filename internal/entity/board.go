package entity

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/rocketscienceinc/tictactoe-commentary/internal/apperror"
)

// Mark is the symbol a player is identified by. The zero value is an empty cell.
type Mark uint8

const (
	Empty Mark = iota
	MarkX
	MarkO
)

// Center is the index of the middle cell.
const Center = 4

var (
	ErrInvalidCell = errors.New("invalid cell index")

	// WinLines - rows, columns and diagonals, always enumerated in this order.
	WinLines = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	Corners = [4]int{0, 2, 6, 8}
)

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark, Empty stays Empty.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return Empty
	}
}

func (m Mark) IsPlayer() bool {
	return m == MarkX || m == MarkO
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*m = MarkX
	case "O":
		*m = MarkO
	case "":
		*m = Empty
	default:
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, text)
	}
	return nil
}

// Board - 9 cells in row-major order: 0-2 top row, 3-5 middle, 6-8 bottom.
type Board [9]Mark

func (that *Board) Reset() {
	*that = Board{}
}

// Place puts mark into an empty cell. Every rejection wraps apperror.ErrInvalidMove.
func (that *Board) Place(index int, mark Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrInvalidMark)
	}

	if index < 0 || index >= len(that) {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, ErrInvalidCell, index)
	}

	if that[index] != Empty {
		return fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, index)
	}

	that[index] = mark

	return nil
}

// EmptyCells yields the indices of empty cells. The board is re-read on every iteration.
func (that Board) EmptyCells() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, cell := range that {
			if cell == Empty && !yield(i) {
				return
			}
		}
	}
}

func (that Board) IsFull() bool {
	for range that.EmptyCells() {
		return false
	}
	return true
}

func (that Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

func (that Board) String() string {
	var sb strings.Builder
	for i, cell := range that {
		switch {
		case cell == Empty:
			sb.WriteByte('.')
		default:
			sb.WriteString(cell.String())
		}

		if i%3 == 2 && i != len(that)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// IsCorner reports whether index is one of the four corner cells.
func IsCorner(index int) bool {
	for _, corner := range Corners {
		if corner == index {
			return true
		}
	}
	return false
}
