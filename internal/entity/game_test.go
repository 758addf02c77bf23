package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameSession(t *testing.T) {
	// When: a new session is created
	session := NewGameSession("game_1", "ABC234")

	// Then: it waits for participants with full budgets and player 1 to move
	require.Equal(t, StatusWaiting, session.Status)
	require.Equal(t, PlayerFirst, session.Turn)
	require.Equal(t, [2]int{MoveBudget, MoveBudget}, session.MovesRemaining)
	require.Equal(t, PlayerNone, session.Winner)
	assert.Empty(t, session.MoveHistory)
	assert.Equal(t, PlayerFirst, session.FirstEmptySlot())
}

func TestGameSession_Seating(t *testing.T) {
	session := NewGameSession("game_1", "ABC234")

	// When: the first seat is taken
	session.Seat(PlayerFirst, &Participant{Name: "alice", Kind: KindHuman, JoinedAt: time.Now()})

	// Then: the next empty slot is the second seat
	require.Equal(t, PlayerSecond, session.FirstEmptySlot())
	require.False(t, session.BothSeated())

	// When: the second seat is taken too
	session.Seat(PlayerSecond, &Participant{Name: "bot", Kind: KindAgent, JoinedAt: time.Now()})

	// Then: the session is full
	require.Equal(t, PlayerNone, session.FirstEmptySlot())
	require.True(t, session.BothSeated())
}

func TestGameSession_Clone(t *testing.T) {
	// Given: a session with a participant and history
	model := "gpt-4"
	session := NewGameSession("game_1", "ABC234")
	session.Seat(PlayerFirst, &Participant{Name: "bot", Kind: KindAgent, Model: &model, JoinedAt: time.Now()})
	session.MoveHistory = append(session.MoveHistory, Move{Player: PlayerFirst, Row: 7, Col: 7})

	// When: the session is cloned and the clone is mutated
	clone := session.Clone()
	clone.MoveHistory[0].Col = 0
	clone.Players[0].Name = "mutated"
	*clone.Players[0].Model = "mutated"
	clone.Board[0][0] = CellFirst

	// Then: the original is unaffected
	assert.Equal(t, 7, session.MoveHistory[0].Col)
	assert.Equal(t, "bot", session.Players[0].Name)
	assert.Equal(t, "gpt-4", *session.Players[0].Model)
	assert.Equal(t, CellEmpty, session.Board[0][0])
}

func TestGameSession_Clone_FreshSession(t *testing.T) {
	// Given: a session with no moves and no participants yet
	session := NewGameSession("game_1", "ABC234")

	// When: it is cloned
	clone := session.Clone()

	// Then: the clone is deeply equal, nil history included
	require.Equal(t, session, clone)
	assert.Nil(t, clone.MoveHistory)
}

func TestPlayer_Opponent(t *testing.T) {
	assert.Equal(t, PlayerSecond, PlayerFirst.Opponent())
	assert.Equal(t, PlayerFirst, PlayerSecond.Opponent())
}
