package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
	"github.com/gomokuhq/gomoku-backend/internal/repository"
	"github.com/gomokuhq/gomoku-backend/internal/service"
	"github.com/gomokuhq/gomoku-backend/internal/usecase"
)

type noopLeaderboard struct{}

func (noopLeaderboard) RecordGame(_ context.Context, _, _ *entity.Participant, _ entity.Player) error {
	return nil
}

func (noopLeaderboard) TopPlayers(_ context.Context, _ int) ([]*entity.PlayerRating, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stats := service.NewStatsService(logger, repository.NewMemoryStatsRepository(), noopLeaderboard{})
	registry := usecase.NewRegistry(logger, repository.NewMemoryGameRepository(time.Hour), stats)

	return NewRouter(logger, registry, service.NewBotService(nil), stats, noopLeaderboard{})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func TestCreateGame(t *testing.T) {
	router := newTestRouter(t)

	// When: a game is created
	rec := doJSON(t, router, http.MethodPost, "/api/games", createGameRequest{Name: "alice", Kind: "human"})

	// Then: the session comes back waiting with an invite code
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decode[gameResponse](t, rec)
	assert.NotEmpty(t, resp.Game.ID)
	assert.NotEmpty(t, resp.Game.InviteCode)
	assert.Equal(t, entity.StatusWaiting, resp.Game.Status)
	require.NotNil(t, resp.Game.Players[0])
	assert.Equal(t, "alice", resp.Game.Players[0].Name)
}

func TestCreateGame_BadKind(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/games", createGameRequest{Name: "alice", Kind: "alien"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGame_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/games/missing", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
}

func TestInviteJoinAndMoveFlow(t *testing.T) {
	router := newTestRouter(t)

	// Given: a created session
	created := decode[gameResponse](t, doJSON(t, router, http.MethodPost, "/api/games",
		createGameRequest{Name: "alice", Kind: "human"}))

	// When: the invite code is checked
	rec := doJSON(t, router, http.MethodGet, "/api/invites/"+created.Game.InviteCode, nil)

	// Then: the second seat is reported available
	require.Equal(t, http.StatusOK, rec.Code)

	invite := decode[checkInviteResponse](t, rec)
	assert.Equal(t, created.Game.ID, invite.SessionID)
	assert.Equal(t, int(entity.PlayerSecond), invite.AvailableSlot)

	// When: an agent joins through the code
	model := "test-model"
	rec = doJSON(t, router, http.MethodPost, "/api/games/join",
		joinGameRequest{Code: created.Game.InviteCode, Name: "bot", Kind: "agent", Model: &model})

	// Then: it takes the second seat and the game starts
	require.Equal(t, http.StatusOK, rec.Code)

	joined := decode[joinGameResponse](t, rec)
	assert.Equal(t, int(entity.PlayerSecond), joined.AssignedPlayer)
	assert.True(t, joined.Ready)
	assert.Equal(t, entity.StatusOngoing, joined.Game.Status)

	// When: player 1 moves
	rec = doJSON(t, router, http.MethodPost, "/api/games/"+created.Game.ID+"/move",
		moveRequest{Player: 1, Row: 7, Col: 7})

	require.Equal(t, http.StatusOK, rec.Code)

	moved := decode[moveResponse](t, rec)
	assert.Empty(t, moved.WinningLine)
	assert.Equal(t, entity.PlayerSecond, moved.Game.Turn)

	// When: player 1 tries to move again out of turn
	rec = doJSON(t, router, http.MethodPost, "/api/games/"+created.Game.ID+"/move",
		moveRequest{Player: 1, Row: 7, Col: 8})

	// Then: the move is rejected as a conflict
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitMove_UnknownSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/games/missing/move", moveRequest{Player: 1, Row: 0, Col: 0})

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOpenGames(t *testing.T) {
	router := newTestRouter(t)

	// Given: one open session
	doJSON(t, router, http.MethodPost, "/api/games", createGameRequest{Name: "alice", Kind: "human"})

	// When: open games are listed
	rec := doJSON(t, router, http.MethodGet, "/api/games?limit=5", nil)

	// Then: the session shows up as non-terminal with no moves yet
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode[[]openGameItem](t, rec)
	require.Len(t, items, 1)
	assert.False(t, items[0].Terminal)
	assert.Equal(t, 0, items[0].MoveCount)
	assert.Equal(t, int(entity.PlayerFirst), items[0].CurrentPlayer)
}

func TestAgentMove(t *testing.T) {
	router := newTestRouter(t)

	// Given: an empty board in wire form
	board := make([][]int, entity.BoardSize)
	for row := range board {
		board[row] = make([]int, entity.BoardSize)
	}

	// When: a move is requested for player 1
	rec := doJSON(t, router, http.MethodPost, "/api/agent/move", agentMoveRequest{Board: board, Player: 1})

	// Then: the proposal is a legal coordinate
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[agentMoveResponse](t, rec)
	assert.GreaterOrEqual(t, resp.Row, 0)
	assert.Less(t, resp.Row, entity.BoardSize)
	assert.GreaterOrEqual(t, resp.Col, 0)
	assert.Less(t, resp.Col, entity.BoardSize)
}

func TestAgentMove_MalformedBoard(t *testing.T) {
	router := newTestRouter(t)

	// Given: a board with the wrong number of rows
	board := make([][]int, 3)
	for row := range board {
		board[row] = make([]int, entity.BoardSize)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/agent/move", agentMoveRequest{Board: board, Player: 1})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Given: a board with an out-of-range cell value
	board = make([][]int, entity.BoardSize)
	for row := range board {
		board[row] = make([]int, entity.BoardSize)
	}
	board[0][0] = 7

	rec = doJSON(t, router, http.MethodPost, "/api/agent/move", agentMoveRequest{Board: board, Player: 1})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Given: an invalid player value
	board[0][0] = 0

	rec = doJSON(t, router, http.MethodPost, "/api/agent/move", agentMoveRequest{Board: board, Player: 3})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGlobalStatsAndLeaderboard(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[entity.GlobalStats](t, rec)
	assert.Equal(t, 0, stats.TotalGames)

	rec = doJSON(t, router, http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestPing(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/ping", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
