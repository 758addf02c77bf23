package service

import (
	"context"
	"fmt"
	"math"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

// eloKFactor controls how much a single result moves a rating.
const eloKFactor = 32

type ratingRepo interface {
	GetOrCreate(ctx context.Context, name string, kind entity.ParticipantKind) (*entity.PlayerRating, error)
	Update(ctx context.Context, rating *entity.PlayerRating) error
	List(ctx context.Context, limit int) ([]*entity.PlayerRating, error)
}

type LeaderboardService interface {
	RecordGame(ctx context.Context, first, second *entity.Participant, winner entity.Player) error
	TopPlayers(ctx context.Context, limit int) ([]*entity.PlayerRating, error)
}

type leaderboardService struct {
	ratingRepo ratingRepo
}

func NewLeaderboardService(ratingRepo ratingRepo) LeaderboardService {
	return &leaderboardService{
		ratingRepo: ratingRepo,
	}
}

// RecordGame applies one Elo update for a finished game between two seated
// participants. winner is PlayerNone for a draw.
func (that *leaderboardService) RecordGame(ctx context.Context, first, second *entity.Participant, winner entity.Player) error {
	firstRating, err := that.ratingRepo.GetOrCreate(ctx, first.Name, first.Kind)
	if err != nil {
		return fmt.Errorf("failed to get rating for first player: %w", err)
	}

	secondRating, err := that.ratingRepo.GetOrCreate(ctx, second.Name, second.Kind)
	if err != nil {
		return fmt.Errorf("failed to get rating for second player: %w", err)
	}

	expectedFirst := 1 / (1 + math.Pow(10, float64(secondRating.Rating-firstRating.Rating)/400))
	expectedSecond := 1 - expectedFirst

	var scoreFirst, scoreSecond float64

	switch winner {
	case entity.PlayerFirst:
		scoreFirst, scoreSecond = 1, 0
		firstRating.Wins++
		secondRating.Losses++
	case entity.PlayerSecond:
		scoreFirst, scoreSecond = 0, 1
		firstRating.Losses++
		secondRating.Wins++
	default:
		scoreFirst, scoreSecond = 0.5, 0.5
		firstRating.Draws++
		secondRating.Draws++
	}

	firstRating.Rating += int(math.Round(eloKFactor * (scoreFirst - expectedFirst)))
	secondRating.Rating += int(math.Round(eloKFactor * (scoreSecond - expectedSecond)))

	if err = that.ratingRepo.Update(ctx, firstRating); err != nil {
		return fmt.Errorf("failed to update rating for first player: %w", err)
	}

	if err = that.ratingRepo.Update(ctx, secondRating); err != nil {
		return fmt.Errorf("failed to update rating for second player: %w", err)
	}

	return nil
}

func (that *leaderboardService) TopPlayers(ctx context.Context, limit int) ([]*entity.PlayerRating, error) {
	ratings, err := that.ratingRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	return ratings, nil
}
