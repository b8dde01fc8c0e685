package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
)

const (
	// GridSize - total number of cells on the board.
	GridSize = 9

	tableSize = 3
)

const (
	EmptyCell = byte(' ')
	MarkX     = byte('X')
	MarkO     = byte('O')
)

// Grid - the 3x3 board as it travels on the wire: 9 cells, each a space,
// 'X' or 'O'. Each session owns its own grid, so the engine needs no
// synchronization.
type Grid [GridSize]byte

type Outcome int

const (
	Ongoing Outcome = iota
	Won
	Draw
)

// Verdict - terminal evaluation of a grid. Winner is set only when
// Outcome is Won.
type Verdict struct {
	Outcome Outcome
	Winner  byte
}

// NewGrid - returns an all-empty grid.
func NewGrid() Grid {
	var grid Grid
	for i := range grid {
		grid[i] = EmptyCell
	}
	return grid
}

// Apply - places mark on the given cell. The cell index must be inside
// the grid and the cell must still be empty; occupied cells are never
// overwritten.
func (that *Grid) Apply(cell int, mark byte) error {
	if cell < 0 || cell >= GridSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return nil
}

// Evaluate - checks the grid for a finished game. Diagonals are checked
// before columns and rows, preserving the reference evaluation order.
func (that Grid) Evaluate() Verdict {
	if center := that[rowCol(1, 1)]; center != EmptyCell {
		if that[rowCol(0, 0)] == center && center == that[rowCol(2, 2)] {
			return Verdict{Outcome: Won, Winner: center}
		}
		if that[rowCol(2, 0)] == center && center == that[rowCol(0, 2)] {
			return Verdict{Outcome: Won, Winner: center}
		}
	}

	for i := 0; i < tableSize; i++ {
		if that[rowCol(0, i)] != EmptyCell &&
			that[rowCol(0, i)] == that[rowCol(1, i)] && that[rowCol(1, i)] == that[rowCol(2, i)] {
			return Verdict{Outcome: Won, Winner: that[rowCol(0, i)]}
		}

		if that[rowCol(i, 0)] != EmptyCell &&
			that[rowCol(i, 0)] == that[rowCol(i, 1)] && that[rowCol(i, 1)] == that[rowCol(i, 2)] {
			return Verdict{Outcome: Won, Winner: that[rowCol(i, 0)]}
		}
	}

	for _, cell := range that {
		if cell == EmptyCell {
			return Verdict{Outcome: Ongoing}
		}
	}

	return Verdict{Outcome: Draw}
}

// ToggleMark - returns the mark of the other player.
func ToggleMark(mark byte) byte {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}

func rowCol(i, j int) int {
	return tableSize*i + j
}
