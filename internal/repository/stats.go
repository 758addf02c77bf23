package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

const statsKey = "gomoku:stats"

// StatsRepository holds the single global aggregate record. Unlike sessions
// it never expires.
type StatsRepository interface {
	Get(ctx context.Context) (*entity.GlobalStats, error)
	Put(ctx context.Context, stats *entity.GlobalStats) error
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) Get(ctx context.Context) (*entity.GlobalStats, error) {
	response, err := that.client.Get(ctx, statsKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.GlobalStats{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get global stats: %w", err)
	}

	var stats entity.GlobalStats
	if err = json.Unmarshal([]byte(response), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal global stats: %w", err)
	}

	return &stats, nil
}

func (that *dbStats) Put(ctx context.Context, stats *entity.GlobalStats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("could not marshal global stats: %w", err)
	}

	if err = that.client.Set(ctx, statsKey, statsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set global stats: %w", err)
	}

	return nil
}

// MemoryStatsRepository is the in-process StatsRepository variant.
type MemoryStatsRepository struct {
	mu    sync.Mutex
	stats entity.GlobalStats
}

func NewMemoryStatsRepository() *MemoryStatsRepository {
	return &MemoryStatsRepository{}
}

func (that *MemoryStatsRepository) Get(_ context.Context) (*entity.GlobalStats, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stats := that.stats

	if that.stats.ModelStats != nil {
		stats.ModelStats = make(map[string]*entity.ModelStats, len(that.stats.ModelStats))
		for model, tally := range that.stats.ModelStats {
			copied := *tally
			stats.ModelStats[model] = &copied
		}
	}

	return &stats, nil
}

func (that *MemoryStatsRepository) Put(_ context.Context, stats *entity.GlobalStats) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.stats = *stats

	return nil
}
