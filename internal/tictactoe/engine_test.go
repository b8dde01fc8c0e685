package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridFromString(t *testing.T, s string) Grid {
	t.Helper()

	require.Len(t, s, GridSize)

	var grid Grid
	copy(grid[:], s)
	return grid
}

func TestNewGrid(t *testing.T) {
	// Given: a freshly created grid
	grid := NewGrid()

	// Then: every cell should be empty
	for i, cell := range grid {
		assert.Equalf(t, EmptyCell, cell, "cell %d should be empty", i)
	}
}

func TestGrid_Apply(t *testing.T) {
	t.Run("Places a mark on an empty cell", func(t *testing.T) {
		// Given: an empty grid
		grid := NewGrid()

		// When: X plays cell 4
		err := grid.Apply(4, MarkX)

		// Then: the cell holds X and nothing else changed
		require.NoError(t, err)
		assert.Equal(t, MarkX, grid[4])
		assert.Equal(t, EmptyCell, grid[0])
	})

	t.Run("Rejects an out-of-range cell", func(t *testing.T) {
		// Given: an empty grid
		grid := NewGrid()

		// When: the cell index is outside the board
		errHigh := grid.Apply(9, MarkX)
		errLow := grid.Apply(-1, MarkX)

		// Then: both moves fail and the grid stays empty
		assert.ErrorIs(t, errHigh, apperror.ErrInvalidCell)
		assert.ErrorIs(t, errLow, apperror.ErrInvalidCell)
		assert.Equal(t, NewGrid(), grid)
	})

	t.Run("Never overwrites an occupied cell", func(t *testing.T) {
		// Given: a grid where X already holds cell 0
		grid := NewGrid()
		require.NoError(t, grid.Apply(0, MarkX))

		// When: O plays the same cell
		err := grid.Apply(0, MarkO)

		// Then: the move fails and X keeps the cell
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, MarkX, grid[0])
	})
}

func TestGrid_Evaluate(t *testing.T) {
	t.Run("Win on the top row", func(t *testing.T) {
		// Given: X holds cells 0, 1 and 2
		grid := gridFromString(t, "XXX      ")

		// When: evaluating the grid
		verdict := grid.Evaluate()

		// Then: X wins
		assert.Equal(t, Verdict{Outcome: Won, Winner: MarkX}, verdict)
	})

	t.Run("Win on a column", func(t *testing.T) {
		// Given: O holds cells 1, 4 and 7
		grid := gridFromString(t, " O  O  O ")

		// When: evaluating the grid
		verdict := grid.Evaluate()

		// Then: O wins
		assert.Equal(t, Verdict{Outcome: Won, Winner: MarkO}, verdict)
	})

	t.Run("Win on the main diagonal", func(t *testing.T) {
		// Given: X holds cells 0, 4 and 8
		grid := gridFromString(t, "X   X   X")

		// When: evaluating the grid
		verdict := grid.Evaluate()

		// Then: X wins
		assert.Equal(t, Verdict{Outcome: Won, Winner: MarkX}, verdict)
	})

	t.Run("Win on the anti-diagonal", func(t *testing.T) {
		// Given: O holds cells 2, 4 and 6
		grid := gridFromString(t, "  O O O  ")

		// When: evaluating the grid
		verdict := grid.Evaluate()

		// Then: O wins
		assert.Equal(t, Verdict{Outcome: Won, Winner: MarkO}, verdict)
	})

	t.Run("Draw on a full grid without a line", func(t *testing.T) {
		// Given: a full grid where no player completed a line
		grid := gridFromString(t, "XXOOOXXXO")

		// When: evaluating the grid
		verdict := grid.Evaluate()

		// Then: the game is a draw
		assert.Equal(t, Verdict{Outcome: Draw}, verdict)
	})

	t.Run("Ongoing with a few cells filled and no line", func(t *testing.T) {
		// Given: three scattered marks
		grid := gridFromString(t, "XO  X    ")

		// When: evaluating the grid
		verdict := grid.Evaluate()

		// Then: the game is still ongoing
		assert.Equal(t, Verdict{Outcome: Ongoing}, verdict)
	})

	t.Run("Win is detected on the move completing the line", func(t *testing.T) {
		// Given: alternating moves where X closes the top row last
		grid := NewGrid()
		moves := []struct {
			cell int
			mark byte
		}{
			{0, MarkX}, {3, MarkO}, {1, MarkX}, {4, MarkO},
		}
		for _, move := range moves {
			require.NoError(t, grid.Apply(move.cell, move.mark))
			require.Equal(t, Ongoing, grid.Evaluate().Outcome)
		}

		// When: X plays cell 2
		require.NoError(t, grid.Apply(2, MarkX))

		// Then: the win is reported immediately
		assert.Equal(t, Verdict{Outcome: Won, Winner: MarkX}, grid.Evaluate())
	})
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, MarkO, ToggleMark(MarkX))
	assert.Equal(t, MarkX, ToggleMark(MarkO))
}
