package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gomokuhq/gomoku-backend/internal/apperror"
	"github.com/gomokuhq/gomoku-backend/internal/entity"
	"github.com/gomokuhq/gomoku-backend/internal/service"
	"github.com/gomokuhq/gomoku-backend/internal/usecase"
)

type gameRegistry interface {
	CreateGame(ctx context.Context, opts usecase.CreateGameOptions) (*entity.GameSession, error)
	CheckInvite(ctx context.Context, code string) (*entity.GameSession, entity.Player, error)
	JoinGame(ctx context.Context, code string, info *entity.Participant) (*entity.GameSession, entity.Player, error)
	GetGame(ctx context.Context, id string) (*entity.GameSession, error)
	SubmitMove(ctx context.Context, id string, player entity.Player, row, col int) (*usecase.MoveResult, error)
	ListOpenGames(ctx context.Context, limit int) ([]*entity.GameSession, error)
}

type botService interface {
	ProposeMove(board entity.Board, player entity.Player) (row, col int, err error)
}

type statsService interface {
	GetGlobalStats(ctx context.Context) (*entity.GlobalStats, error)
}

type leaderboardService interface {
	TopPlayers(ctx context.Context, limit int) ([]*entity.PlayerRating, error)
}

type handlers struct {
	logger      *slog.Logger
	registry    gameRegistry
	bot         botService
	stats       statsService
	leaderboard leaderboardService
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, apperror.ErrMalformedRequest)
		return
	}

	session, err := that.registry.CreateGame(r.Context(), usecase.CreateGameOptions{
		CreatorName:  req.Name,
		CreatorKind:  entity.ParticipantKind(req.Kind),
		CreatorModel: req.Model,
		PlayAs:       entity.Player(req.PlayAs),
	})
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: session})
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.registry.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: session})
}

func (that *handlers) listOpenGames(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sessions, err := that.registry.ListOpenGames(r.Context(), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	items := make([]openGameItem, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, openGameItem{
			SessionID:     session.ID,
			CurrentPlayer: int(session.Turn),
			MoveCount:     len(session.MoveHistory),
			Terminal:      session.IsFinished(),
			Winner:        int(session.Winner),
			CreatedAt:     session.CreatedAt,
		})
	}

	that.writeJSON(w, http.StatusOK, items)
}

func (that *handlers) checkInvite(w http.ResponseWriter, r *http.Request) {
	session, slot, err := that.registry.CheckInvite(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, checkInviteResponse{
		SessionID:     session.ID,
		Players:       session.Players,
		AvailableSlot: int(slot),
	})
}

func (that *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, apperror.ErrMalformedRequest)
		return
	}

	session, assigned, err := that.registry.JoinGame(r.Context(), req.Code, &entity.Participant{
		Name:  req.Name,
		Kind:  entity.ParticipantKind(req.Kind),
		Model: req.Model,
	})
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, joinGameResponse{
		Game:           session,
		AssignedPlayer: int(assigned),
		Ready:          session.BothSeated(),
	})
}

func (that *handlers) submitMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, apperror.ErrMalformedRequest)
		return
	}

	result, err := that.registry.SubmitMove(r.Context(), chi.URLParam(r, "id"), entity.Player(req.Player), req.Row, req.Col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, moveResponse{
		Game:        result.Session,
		WinningLine: result.WinningLine,
	})
}

// agentMove is the stateless heuristic endpoint: it validates board shape and
// cell values itself since the board arrives from the wire, not from storage.
func (that *handlers) agentMove(w http.ResponseWriter, r *http.Request) {
	var req agentMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, apperror.ErrMalformedRequest)
		return
	}

	player := entity.Player(req.Player)
	if !player.Valid() {
		that.writeError(w, apperror.ErrMalformedRequest)
		return
	}

	board, err := parseBoard(req.Board)
	if err != nil {
		that.writeError(w, err)
		return
	}

	row, col, err := that.bot.ProposeMove(board, player)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, agentMoveResponse{Row: row, Col: col})
}

func (that *handlers) globalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.stats.GetGlobalStats(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) topPlayers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	ratings, err := that.leaderboard.TopPlayers(r.Context(), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	if ratings == nil {
		ratings = []*entity.PlayerRating{}
	}

	that.writeJSON(w, http.StatusOK, ratings)
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func parseBoard(raw [][]int) (entity.Board, error) {
	var board entity.Board

	if len(raw) != entity.BoardSize {
		return board, apperror.ErrMalformedRequest
	}

	for row, cells := range raw {
		if len(cells) != entity.BoardSize {
			return board, apperror.ErrMalformedRequest
		}

		for col, value := range cells {
			if value < 0 || value > 2 {
				return board, apperror.ErrMalformedRequest
			}
			board[row][col] = entity.Cell(value)
		}
	}

	return board, nil
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	that.writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

// statusForError is the only place error kinds meet HTTP codes; the core
// packages never depend on this mapping.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound),
		errors.Is(err, apperror.ErrInviteCodeInvalid):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrSessionAlreadyOver),
		errors.Is(err, apperror.ErrSessionFull),
		errors.Is(err, apperror.ErrWrongTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, service.ErrNoAvailableMoves):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, apperror.ErrNoMovesRemaining),
		errors.Is(err, apperror.ErrMalformedRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
