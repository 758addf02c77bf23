package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gomokuhq/gomoku-backend/internal/config"
	"github.com/gomokuhq/gomoku-backend/internal/repository"
	"github.com/gomokuhq/gomoku-backend/internal/repository/storage"
	"github.com/gomokuhq/gomoku-backend/internal/service"
	"github.com/gomokuhq/gomoku-backend/internal/usecase"
	"github.com/gomokuhq/gomoku-backend/transport/rest"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var gameRepo repository.GameRepository
	var statsRepo repository.StatsRepository
	var sweeper *repository.MemoryGameRepository

	switch conf.Storage.Backend {
	case config.BackendRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo = repository.NewGameRepository(redisStorage.Connection, conf.Game.Retention)
		statsRepo = repository.NewStatsRepository(redisStorage.Connection)
	case config.BackendMemory:
		memoryRepo := repository.NewMemoryGameRepository(conf.Game.Retention)
		gameRepo = memoryRepo
		statsRepo = repository.NewMemoryStatsRepository()
		sweeper = memoryRepo
	default:
		return fmt.Errorf("unknown storage backend: %q", conf.Storage.Backend)
	}

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	ratingRepo := repository.NewRatingRepository(sqliteStorage.Connection)
	leaderboardService := service.NewLeaderboardService(ratingRepo)
	statsService := service.NewStatsService(logger, statsRepo, leaderboardService)
	botService := service.NewBotService(nil)
	registry := usecase.NewRegistry(logger, gameRepo, statsService)

	if sweeper != nil {
		go usecase.NewExpiryWorker(logger, sweeper, registry, conf.Game.SweepInterval).Run(ctx)
	}

	router := rest.NewRouter(logger, registry, botService, statsService, leaderboardService)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
