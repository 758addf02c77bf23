package entity

import "time"

// ModelStats tallies outcomes per agent-model identifier.
type ModelStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// GlobalStats is the aggregate outcome record, written once per finished game.
type GlobalStats struct {
	HumanWins  int                    `json:"human_wins"`
	AgentWins  int                    `json:"agent_wins"`
	Ties       int                    `json:"ties"`
	TotalGames int                    `json:"total_games"`
	ModelStats map[string]*ModelStats `json:"model_stats,omitempty"`
}

// PlayerRating is one leaderboard row, keyed by participant name.
type PlayerRating struct {
	Name      string          `json:"name"`
	Kind      ParticipantKind `json:"kind"`
	Rating    int             `json:"rating"`
	Wins      int             `json:"wins"`
	Losses    int             `json:"losses"`
	Draws     int             `json:"draws"`
	CreatedAt time.Time       `json:"created_at"`
}
