package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

type statsRepo interface {
	Get(ctx context.Context) (*entity.GlobalStats, error)
	Put(ctx context.Context, stats *entity.GlobalStats) error
}

// StatsService consumes terminal-game outcomes: it maintains the global
// aggregate record and forwards results to the leaderboard. The registry
// calls RecordResult exactly once per finished session.
type StatsService interface {
	RecordResult(ctx context.Context, session *entity.GameSession) error
	GetGlobalStats(ctx context.Context) (*entity.GlobalStats, error)
}

type statsService struct {
	logger      *slog.Logger
	statsRepo   statsRepo
	leaderboard LeaderboardService
}

func NewStatsService(logger *slog.Logger, statsRepo statsRepo, leaderboard LeaderboardService) StatsService {
	return &statsService{
		logger:      logger,
		statsRepo:   statsRepo,
		leaderboard: leaderboard,
	}
}

func (that *statsService) RecordResult(ctx context.Context, session *entity.GameSession) error {
	log := that.logger.With("method", "RecordResult", "sessionID", session.ID)

	if !session.IsFinished() {
		return nil
	}

	stats, err := that.statsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get global stats: %w", err)
	}

	stats.TotalGames++

	first := session.Participant(entity.PlayerFirst)
	second := session.Participant(entity.PlayerSecond)

	if session.Winner == entity.PlayerNone {
		stats.Ties++
		recordModelResult(stats, first, func(m *entity.ModelStats) { m.Ties++ })
		recordModelResult(stats, second, func(m *entity.ModelStats) { m.Ties++ })
	} else {
		winner := session.Participant(session.Winner)
		loser := session.Participant(session.Winner.Opponent())

		if winner != nil && winner.Kind == entity.KindAgent {
			stats.AgentWins++
		} else {
			stats.HumanWins++
		}

		recordModelResult(stats, winner, func(m *entity.ModelStats) { m.Wins++ })
		recordModelResult(stats, loser, func(m *entity.ModelStats) { m.Losses++ })
	}

	if err = that.statsRepo.Put(ctx, stats); err != nil {
		return fmt.Errorf("failed to put global stats: %w", err)
	}

	// Ratings only make sense for a game both seats actually played.
	if first != nil && second != nil {
		if err = that.leaderboard.RecordGame(ctx, first, second, session.Winner); err != nil {
			log.Error("failed to record game on leaderboard", "error", err)
		}
	}

	return nil
}

func (that *statsService) GetGlobalStats(ctx context.Context) (*entity.GlobalStats, error) {
	stats, err := that.statsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %w", err)
	}

	return stats, nil
}

func recordModelResult(stats *entity.GlobalStats, participant *entity.Participant, update func(*entity.ModelStats)) {
	if participant == nil || participant.Model == nil {
		return
	}

	if stats.ModelStats == nil {
		stats.ModelStats = make(map[string]*entity.ModelStats)
	}

	tally, ok := stats.ModelStats[*participant.Model]
	if !ok {
		tally = &entity.ModelStats{}
		stats.ModelStats[*participant.Model] = tally
	}

	update(tally)
}
