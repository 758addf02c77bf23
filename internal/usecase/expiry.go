package usecase

import (
	"context"
	"log/slog"
	"time"
)

type sessionSweeper interface {
	Sweep(now time.Time) []string
}

type sessionReleaser interface {
	ReleaseSession(id string)
}

// ExpiryWorker evicts idle sessions from backends without native TTL
// support. Redis expires keys on its own; the in-memory store needs this
// sweep. Evicted sessions are released from the registry so their
// serialization locks go away with them.
type ExpiryWorker struct {
	logger   *slog.Logger
	sweeper  sessionSweeper
	releaser sessionReleaser
	interval time.Duration
}

func NewExpiryWorker(logger *slog.Logger, sweeper sessionSweeper, releaser sessionReleaser, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		logger:   logger,
		sweeper:  sweeper,
		releaser: releaser,
		interval: interval,
	}
}

func (that *ExpiryWorker) Run(ctx context.Context) {
	log := that.logger.With("component", "expiry")

	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("expiry worker stopped")
			return
		case now := <-ticker.C:
			evicted := that.sweeper.Sweep(now)
			for _, id := range evicted {
				that.releaser.ReleaseSession(id)
			}

			if len(evicted) > 0 {
				log.Info("expired sessions removed", "count", len(evicted))
			}
		}
	}
}
