package gomoku

import "github.com/gomokuhq/gomoku-backend/internal/entity"

// ValidCoords reports whether row and col fall inside the board.
func ValidCoords(row, col int) bool {
	return row >= 0 && row < entity.BoardSize && col >= 0 && col < entity.BoardSize
}

// IsValidMove reports whether the cell exists and is empty.
func IsValidMove(board entity.Board, row, col int) bool {
	return ValidCoords(row, col) && board[row][col] == entity.CellEmpty
}

// Place writes a stone into the cell. Callers validate first; Place itself
// does not check legality.
func Place(board *entity.Board, row, col int, player entity.Player) {
	board[row][col] = player.Cell()
}
