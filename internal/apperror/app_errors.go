package apperror

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInviteCodeInvalid  = errors.New("invite code is invalid")
	ErrSessionAlreadyOver = errors.New("session is already over")
	ErrSessionFull        = errors.New("session is already full")
	ErrWrongTurn          = errors.New("it's not your turn")
	ErrOutOfBounds        = errors.New("coordinates are out of bounds")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrNoMovesRemaining   = errors.New("no moves remaining")
	ErrMalformedRequest   = errors.New("malformed request")
)
