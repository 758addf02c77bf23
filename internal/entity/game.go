package entity

import "time"

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const (
	// BoardSize is the side length of the square board.
	BoardSize = 15
	// MoveBudget is the maximum number of stones a single player may place.
	MoveBudget = 25
)

// Player identifies one of the two seats. PlayerFirst moves first.
type Player int

const (
	PlayerNone   Player = 0
	PlayerFirst  Player = 1
	PlayerSecond Player = 2
)

func (that Player) Valid() bool {
	return that == PlayerFirst || that == PlayerSecond
}

func (that Player) Opponent() Player {
	if that == PlayerFirst {
		return PlayerSecond
	}
	return PlayerFirst
}

// Cell carries the occupancy of one board cell; values mirror Player.
type Cell uint8

const (
	CellEmpty  Cell = 0
	CellFirst  Cell = 1
	CellSecond Cell = 2
)

func (that Player) Cell() Cell {
	return Cell(that)
}

// Board is a row-major grid of cells. Being an array it copies by value,
// which keeps snapshots and move simulation cheap.
type Board [BoardSize][BoardSize]Cell

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Move struct {
	Player Player `json:"player"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

type ParticipantKind string

const (
	KindHuman ParticipantKind = "human"
	KindAgent ParticipantKind = "agent"
)

func (that ParticipantKind) Valid() bool {
	return that == KindHuman || that == KindAgent
}

// Participant describes who occupies a player seat. Model is only set for
// agents that report an identifier; nil means absent.
type Participant struct {
	Name     string          `json:"name"`
	Kind     ParticipantKind `json:"kind"`
	Model    *string         `json:"model,omitempty"`
	JoinedAt time.Time       `json:"joined_at"`
}

// GameSession is the full state of one match. It is mutated only through
// seating participants and applying validated moves; once Status is
// StatusFinished it never changes again.
type GameSession struct {
	ID             string          `json:"id"`
	InviteCode     string          `json:"invite_code"`
	Board          Board           `json:"board"`
	Turn           Player          `json:"current_player"`
	MovesRemaining [2]int          `json:"moves_remaining"`
	Players        [2]*Participant `json:"players"`
	Winner         Player          `json:"winner,omitempty"`
	Status         string          `json:"status"`
	MoveHistory    []Move          `json:"move_history"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewGameSession(id, inviteCode string) *GameSession {
	now := time.Now().UTC()

	return &GameSession{
		ID:             id,
		InviteCode:     inviteCode,
		Turn:           PlayerFirst,
		MovesRemaining: [2]int{MoveBudget, MoveBudget},
		Status:         StatusWaiting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (that *GameSession) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *GameSession) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *GameSession) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *GameSession) Remaining(player Player) int {
	return that.MovesRemaining[player-1]
}

func (that *GameSession) DecrementRemaining(player Player) {
	that.MovesRemaining[player-1]--
}

func (that *GameSession) Participant(player Player) *Participant {
	return that.Players[player-1]
}

func (that *GameSession) Seat(player Player, info *Participant) {
	that.Players[player-1] = info
}

// FirstEmptySlot returns the lowest unoccupied seat, or PlayerNone when full.
func (that *GameSession) FirstEmptySlot() Player {
	if that.Players[0] == nil {
		return PlayerFirst
	}
	if that.Players[1] == nil {
		return PlayerSecond
	}
	return PlayerNone
}

func (that *GameSession) BothSeated() bool {
	return that.Players[0] != nil && that.Players[1] != nil
}

// Clone returns a deep copy so callers can publish snapshots without
// exposing the stored session to later mutation.
func (that *GameSession) Clone() *GameSession {
	clone := *that

	if that.MoveHistory != nil {
		clone.MoveHistory = make([]Move, len(that.MoveHistory))
		copy(clone.MoveHistory, that.MoveHistory)
	}

	for i, player := range that.Players {
		if player == nil {
			continue
		}
		info := *player
		if player.Model != nil {
			model := *player.Model
			info.Model = &model
		}
		clone.Players[i] = &info
	}

	return &clone
}
