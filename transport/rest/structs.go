package rest

import (
	"time"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

type createGameRequest struct {
	Name   string  `json:"name"`
	Kind   string  `json:"kind"`
	Model  *string `json:"model,omitempty"`
	PlayAs int     `json:"play_as,omitempty"`
}

type joinGameRequest struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Kind  string  `json:"kind"`
	Model *string `json:"model,omitempty"`
}

type moveRequest struct {
	Player int `json:"player"`
	Row    int `json:"row"`
	Col    int `json:"col"`
}

type agentMoveRequest struct {
	Board  [][]int `json:"board"`
	Player int     `json:"player"`
}

type agentMoveResponse struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type gameResponse struct {
	Game *entity.GameSession `json:"game"`
}

type moveResponse struct {
	Game        *entity.GameSession `json:"game"`
	WinningLine []entity.Coord      `json:"winning_line,omitempty"`
}

type checkInviteResponse struct {
	SessionID     string                 `json:"session_id"`
	Players       [2]*entity.Participant `json:"players"`
	AvailableSlot int                    `json:"available_slot"`
}

type joinGameResponse struct {
	Game           *entity.GameSession `json:"game"`
	AssignedPlayer int                 `json:"assigned_player"`
	Ready          bool                `json:"ready"`
}

type openGameItem struct {
	SessionID     string    `json:"session_id"`
	CurrentPlayer int       `json:"current_player"`
	MoveCount     int       `json:"move_count"`
	Terminal      bool      `json:"terminal"`
	Winner        int       `json:"winner,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
