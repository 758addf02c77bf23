package gomoku

import "github.com/gomokuhq/gomoku-backend/internal/entity"

// WinLength is the number of contiguous stones that completes a line.
const WinLength = 5

// Axis order is fixed: horizontal, vertical, diagonal down-right, diagonal
// down-left. The first axis to reach WinLength decides which line is returned.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// DetectWin checks the four axes through the just-placed stone at (row, col).
// It returns the full contiguous run of the winning line, ordered from the
// backward-most cell to the forward-most cell along the axis, or nil when no
// axis reaches WinLength. Overlines (runs longer than WinLength) still win.
func DetectWin(board entity.Board, row, col int, player entity.Player) []entity.Coord {
	stone := player.Cell()

	for _, axis := range axes {
		dr, dc := axis[0], axis[1]

		backward := runLength(board, row, col, -dr, -dc, stone)
		forward := runLength(board, row, col, dr, dc, stone)

		if backward+1+forward < WinLength {
			continue
		}

		line := make([]entity.Coord, 0, backward+1+forward)
		for i := -backward; i <= forward; i++ {
			line = append(line, entity.Coord{Row: row + dr*i, Col: col + dc*i})
		}

		return line
	}

	return nil
}

// runLength counts contiguous same-player stones stepping away from
// (row, col), exclusive of the starting cell.
func runLength(board entity.Board, row, col, dr, dc int, stone entity.Cell) int {
	count := 0
	for {
		row += dr
		col += dc

		if !ValidCoords(row, col) || board[row][col] != stone {
			return count
		}
		count++
	}
}
