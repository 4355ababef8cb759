package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Board is a 3x3 row-major grid. The zero value is an empty board.
// Board is a value type: assigning it takes a snapshot.
type Board [entity.BoardSize][entity.BoardSize]entity.Mark

func (that *Board) Mark(row, col int) (entity.Mark, error) {
	if err := checkRange(row, col); err != nil {
		return entity.MarkEmpty, err
	}

	return that[row][col], nil
}

func (that *Board) IsEmpty(row, col int) (bool, error) {
	mark, err := that.Mark(row, col)
	if err != nil {
		return false, err
	}

	return mark == entity.MarkEmpty, nil
}

// Place puts mark into an empty cell. Nothing is changed on error.
func (that *Board) Place(row, col int, mark entity.Mark) error {
	if !mark.IsPlayable() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	empty, err := that.IsEmpty(row, col)
	if err != nil {
		return err
	}

	if !empty {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, entity.Move{Row: row, Col: col})
	}

	that[row][col] = mark

	return nil
}

func (that *Board) Reset() {
	*that = Board{}
}

// Count returns how many cells hold mark.
func (that *Board) Count(mark entity.Mark) int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				count++
			}
		}
	}

	return count
}

func checkRange(row, col int) error {
	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfRange, row, col)
	}

	return nil
}

// InRange reports whether the move addresses a cell of the board.
func InRange(move entity.Move) bool {
	return checkRange(move.Row, move.Col) == nil
}
