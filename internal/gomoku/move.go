package gomoku

import (
	"github.com/gomokuhq/gomoku-backend/internal/apperror"
	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

// MoveOutcome is what a successful move application produces. WinningLine is
// set only when the move ended the game with a win; it is reported to the
// caller but not stored on the session.
type MoveOutcome struct {
	Session     *entity.GameSession
	WinningLine []entity.Coord
}

// ApplyMove validates the proposed move in full and only then mutates the
// session: places the stone, burns one move from the player's budget, appends
// to the history and evaluates termination. On any error the session is left
// untouched.
func ApplyMove(session *entity.GameSession, player entity.Player, row, col int) (*MoveOutcome, error) {
	if session.IsFinished() {
		return nil, apperror.ErrSessionAlreadyOver
	}

	if session.Turn != player {
		return nil, apperror.ErrWrongTurn
	}

	if !ValidCoords(row, col) {
		return nil, apperror.ErrOutOfBounds
	}

	if session.Board[row][col] != entity.CellEmpty {
		return nil, apperror.ErrCellOccupied
	}

	// Unreachable in practice: exhausting both budgets ends the game as a
	// draw before the player can move again.
	if session.Remaining(player) <= 0 {
		return nil, apperror.ErrNoMovesRemaining
	}

	Place(&session.Board, row, col, player)
	session.DecrementRemaining(player)
	session.MoveHistory = append(session.MoveHistory, entity.Move{Player: player, Row: row, Col: col})

	outcome := &MoveOutcome{Session: session}

	switch line := DetectWin(session.Board, row, col, player); {
	case line != nil:
		session.Winner = player
		session.Status = entity.StatusFinished
		outcome.WinningLine = line
	case session.Remaining(entity.PlayerFirst) <= 0 && session.Remaining(entity.PlayerSecond) <= 0:
		// Both budgets spent with no line on the board: a draw.
		session.Status = entity.StatusFinished
	default:
		session.Turn = player.Opponent()
	}

	return outcome, nil
}
