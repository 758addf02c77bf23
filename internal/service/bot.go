package service

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
	"github.com/gomokuhq/gomoku-backend/internal/gomoku"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Rand is the randomness the bot uses to vary its play. Tests substitute a
// deterministic implementation.
type Rand interface {
	Intn(n int) int
}

// topMoveCount is how many of the best-scored cells the bot picks among.
const topMoveCount = 5

const (
	ownNeighborWeight      = 4
	opponentNeighborWeight = 2
)

type BotService interface {
	ProposeMove(board entity.Board, player entity.Player) (row, col int, err error)
}

type botService struct {
	rng Rand
}

func NewBotService(rng Rand) BotService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game variety, not security
	}

	return &botService{rng: rng}
}

// ProposeMove picks a cell in strict priority order: complete a winning line
// now, otherwise block the opponent's immediate win, otherwise choose at
// random among the highest-scored cells. Scan order is row-major throughout,
// so equal candidates resolve to the earliest cell.
func (that *botService) ProposeMove(board entity.Board, player entity.Player) (int, int, error) {
	empty := emptyCells(board)
	if len(empty) == 0 {
		return 0, 0, ErrNoAvailableMoves
	}

	// Winning beats blocking: if both players are one stone away, the bot
	// takes its own win.
	if cell, ok := findWinningCell(board, empty, player); ok {
		return cell.Row, cell.Col, nil
	}

	if cell, ok := findWinningCell(board, empty, player.Opponent()); ok {
		return cell.Row, cell.Col, nil
	}

	type scoredCell struct {
		cell  entity.Coord
		score int
	}

	scored := make([]scoredCell, len(empty))
	for i, cell := range empty {
		scored[i] = scoredCell{cell: cell, score: cellScore(board, cell, player)}
	}

	// Stable sort keeps scan order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	top := topMoveCount
	if len(scored) < top {
		top = len(scored)
	}

	pick := scored[that.rng.Intn(top)].cell

	return pick.Row, pick.Col, nil
}

func emptyCells(board entity.Board) []entity.Coord {
	cells := make([]entity.Coord, 0, entity.BoardSize*entity.BoardSize)

	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if board[row][col] == entity.CellEmpty {
				cells = append(cells, entity.Coord{Row: row, Col: col})
			}
		}
	}

	return cells
}

func findWinningCell(board entity.Board, empty []entity.Coord, player entity.Player) (entity.Coord, bool) {
	for _, cell := range empty {
		simulated := board
		gomoku.Place(&simulated, cell.Row, cell.Col, player)

		if gomoku.DetectWin(simulated, cell.Row, cell.Col, player) != nil {
			return cell, true
		}
	}

	return entity.Coord{}, false
}

// cellScore combines proximity to the board center with affinity for
// neighboring stones over the 8 surrounding cells. Building on own stones
// weighs more than crowding the opponent's.
func cellScore(board entity.Board, cell entity.Coord, player entity.Player) int {
	center := entity.BoardSize / 2

	score := 2*entity.BoardSize - abs(cell.Row-center) - abs(cell.Col-center)

	own := player.Cell()
	opponent := player.Opponent().Cell()

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}

			row, col := cell.Row+dr, cell.Col+dc
			if !gomoku.ValidCoords(row, col) {
				continue
			}

			switch board[row][col] {
			case own:
				score += ownNeighborWeight
			case opponent:
				score += opponentNeighborWeight
			}
		}
	}

	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
