package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// WinLines lists rows, then columns, then diagonals. FindWinner walks them in this order.
var WinLines = [8][3]entity.Move{
	{at(0, 0), at(0, 1), at(0, 2)},
	{at(1, 0), at(1, 1), at(1, 2)},
	{at(2, 0), at(2, 1), at(2, 2)},
	{at(0, 0), at(1, 0), at(2, 0)},
	{at(0, 1), at(1, 1), at(2, 1)},
	{at(0, 2), at(1, 2), at(2, 2)},
	{at(0, 0), at(1, 1), at(2, 2)},
	{at(0, 2), at(1, 1), at(2, 0)},
}

func at(row, col int) entity.Move {
	return entity.Move{Row: row, Col: col}
}

// FindWinner returns the mark of the first complete line, or MarkEmpty when there is none.
func FindWinner(board Board) entity.Mark {
	for _, line := range WinLines {
		a, b, c := board[line[0].Row][line[0].Col], board[line[1].Row][line[1].Col], board[line[2].Row][line[2].Col]
		if a != entity.MarkEmpty && a == b && b == c {
			return a
		}
	}

	return entity.MarkEmpty
}

// IsDraw only reports a full board. A full board may still hold a winning line,
// so callers check FindWinner first.
func IsDraw(board Board) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == entity.MarkEmpty {
				return false
			}
		}
	}

	return true
}

// AvailableMoves returns the empty cells in row-major order.
func AvailableMoves(board Board) []entity.Move {
	moves := make([]entity.Move, 0, entity.BoardSize*entity.BoardSize)
	for row := range board {
		for col, cell := range board[row] {
			if cell == entity.MarkEmpty {
				moves = append(moves, entity.Move{Row: row, Col: col})
			}
		}
	}

	return moves
}
