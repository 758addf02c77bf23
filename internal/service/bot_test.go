package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

// firstChoice always picks the first candidate, making the bot deterministic.
type firstChoice struct{}

func (firstChoice) Intn(_ int) int { return 0 }

func TestBot_WinNowBeatsBlocking(t *testing.T) {
	// Given: the bot is one stone from winning and so is the opponent
	var board entity.Board
	for col := 0; col < 4; col++ {
		board[0][col] = entity.CellFirst
	}
	for col := 0; col < 4; col++ {
		board[5][col] = entity.CellSecond
	}

	bot := NewBotService(firstChoice{})

	// When: the bot proposes a move
	row, col, err := bot.ProposeMove(board, entity.PlayerFirst)

	// Then: it completes its own line instead of blocking
	require.NoError(t, err)
	assert.Equal(t, 0, row)
	assert.Equal(t, 4, col)
}

func TestBot_BlocksOpponentWin(t *testing.T) {
	// Given: only the opponent threatens a five-in-a-row
	var board entity.Board
	for col := 3; col < 7; col++ {
		board[8][col] = entity.CellSecond
	}

	bot := NewBotService(firstChoice{})

	// When: the bot proposes a move
	row, col, err := bot.ProposeMove(board, entity.PlayerFirst)

	// Then: it blocks at the first completion cell in scan order
	require.NoError(t, err)
	assert.Equal(t, 8, row)
	assert.Equal(t, 2, col)
}

func TestBot_PrefersCenterOnEmptyBoard(t *testing.T) {
	// Given: an empty board
	var board entity.Board

	bot := NewBotService(firstChoice{})

	// When: the bot proposes a move
	row, col, err := bot.ProposeMove(board, entity.PlayerFirst)

	// Then: the center cell scores highest and is picked deterministically
	require.NoError(t, err)
	assert.Equal(t, entity.BoardSize/2, row)
	assert.Equal(t, entity.BoardSize/2, col)
}

func TestBot_NeighborAffinity(t *testing.T) {
	// Given: one own stone at the center
	var board entity.Board
	board[7][7] = entity.CellFirst

	bot := NewBotService(firstChoice{})

	// When: the bot proposes a move
	row, col, err := bot.ProposeMove(board, entity.PlayerFirst)

	// Then: the best-scored cell is the orthogonal neighbor earliest in scan
	// order, since adjacency to an own stone outweighs raw centrality
	require.NoError(t, err)
	assert.Equal(t, 6, row)
	assert.Equal(t, 7, col)
}

func TestBot_FullBoard(t *testing.T) {
	// Given: a board with no empty cell
	var board entity.Board
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			board[row][col] = entity.CellFirst
		}
	}

	bot := NewBotService(firstChoice{})

	// When: the bot is asked for a move
	_, _, err := bot.ProposeMove(board, entity.PlayerSecond)

	// Then: it reports that no move is available
	require.ErrorIs(t, err, ErrNoAvailableMoves)
}

func TestBot_RandomPickStaysWithinTopCells(t *testing.T) {
	// Given: an empty board and a rand that always takes the last candidate
	var board entity.Board

	bot := NewBotService(lastChoice{})

	// When: the bot proposes a move
	row, col, err := bot.ProposeMove(board, entity.PlayerFirst)

	// Then: the pick is still one of the cells next to the center
	require.NoError(t, err)
	assert.InDelta(t, entity.BoardSize/2, row, 1)
	assert.InDelta(t, entity.BoardSize/2, col, 1)
}

type lastChoice struct{}

func (lastChoice) Intn(n int) int { return n - 1 }
