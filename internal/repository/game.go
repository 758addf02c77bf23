package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gomokuhq/gomoku-backend/internal/apperror"
	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

const (
	gameKeyPrefix   = "gomoku:game:"
	inviteKeyPrefix = "gomoku:invite:"
	openGamesKey    = "gomoku:open"
)

// GameRepository is the only persistence boundary for sessions. Every write
// refreshes the retention TTL on both the session record and its invite-code
// mapping. ListOpen is best effort: backends may return fewer sessions than
// exist.
type GameRepository interface {
	Save(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.GameSession, error)
	ListOpen(ctx context.Context, limit int) ([]*entity.GameSession, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func inviteKey(code string) string {
	return inviteKeyPrefix + strings.ToUpper(code)
}

func (that *dbGame) Save(ctx context.Context, session *entity.GameSession) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(session.ID), sessionJSON, that.ttl)
		pipe.Set(ctx, inviteKey(session.InviteCode), session.ID, that.ttl)

		// Finished sessions drop out of the open index; live ones are
		// rescored so ListOpen stays most-recently-updated first.
		if session.IsFinished() {
			pipe.ZRem(ctx, openGamesKey, session.ID)
		} else {
			pipe.ZAdd(ctx, openGamesKey, redis.Z{
				Score:  float64(session.UpdatedAt.UnixMilli()),
				Member: session.ID,
			})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.GameSession, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var session entity.GameSession
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *dbGame) GetByInviteCode(ctx context.Context, code string) (*entity.GameSession, error) {
	id, err := that.client.Get(ctx, inviteKey(code)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrInviteCodeInvalid
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session id by invite code: %w", err)
	}

	session, err := that.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		// The session record expired ahead of its invite mapping.
		return nil, apperror.ErrInviteCodeInvalid
	}

	return session, err
}

func (that *dbGame) ListOpen(ctx context.Context, limit int) ([]*entity.GameSession, error) {
	ids, err := that.client.ZRevRange(ctx, openGamesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}

	sessions := make([]*entity.GameSession, 0, len(ids))

	for _, id := range ids {
		session, err := that.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrSessionNotFound) {
			// Expired behind the index; drop the stale entry.
			that.client.ZRem(ctx, openGamesKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}

		if session.IsFinished() {
			continue
		}

		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	session, err := that.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, gameKey(id))
		pipe.Del(ctx, inviteKey(session.InviteCode))
		pipe.ZRem(ctx, openGamesKey, id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
