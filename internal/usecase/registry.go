package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gomokuhq/gomoku-backend/internal/apperror"
	"github.com/gomokuhq/gomoku-backend/internal/entity"
	"github.com/gomokuhq/gomoku-backend/internal/gomoku"
	"github.com/gomokuhq/gomoku-backend/internal/pkg"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

type gameRepo interface {
	Save(ctx context.Context, session *entity.GameSession) error
	GetByID(ctx context.Context, id string) (*entity.GameSession, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.GameSession, error)
	ListOpen(ctx context.Context, limit int) ([]*entity.GameSession, error)
	DeleteByID(ctx context.Context, id string) error
}

type statsCollector interface {
	RecordResult(ctx context.Context, session *entity.GameSession) error
}

// Registry creates, looks up and mutates sessions. It owns the persistence
// boundary and guarantees at most one in-flight mutation per session id, so
// racing submissions for the same turn cannot both be accepted.
type Registry struct {
	logger   *slog.Logger
	gameRepo gameRepo
	stats    statsCollector

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry(logger *slog.Logger, gameRepo gameRepo, stats statsCollector) *Registry {
	return &Registry{
		logger:   logger,
		gameRepo: gameRepo,
		stats:    stats,
		locks:    make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing mutations of one session id.
// Independent sessions keep their own locks and proceed concurrently.
func (that *Registry) sessionLock(id string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[id] = lock
	}

	return lock
}

func (that *Registry) dropSessionLock(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.locks, id)
}

// ReleaseSession drops the serialization lock of a session that no longer
// exists in storage. The expiry worker calls this for every evicted id.
func (that *Registry) ReleaseSession(id string) {
	that.dropSessionLock(id)
}

type CreateGameOptions struct {
	CreatorName  string
	CreatorKind  entity.ParticipantKind
	CreatorModel *string
	PlayAs       entity.Player
}

// CreateGame produces a fresh session with the creator seated at the chosen
// slot (first by default) and an invite code for the opponent.
func (that *Registry) CreateGame(ctx context.Context, opts CreateGameOptions) (*entity.GameSession, error) {
	if opts.CreatorName == "" || !opts.CreatorKind.Valid() {
		return nil, apperror.ErrMalformedRequest
	}

	slot := opts.PlayAs
	if slot == entity.PlayerNone {
		slot = entity.PlayerFirst
	}
	if !slot.Valid() {
		return nil, apperror.ErrMalformedRequest
	}

	session := entity.NewGameSession(pkg.GenerateGameID(), pkg.GenerateInviteCode())
	session.Seat(slot, &entity.Participant{
		Name:     opts.CreatorName,
		Kind:     opts.CreatorKind,
		Model:    opts.CreatorModel,
		JoinedAt: time.Now().UTC(),
	})

	if err := that.gameRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, nil
}

// CheckInvite resolves an invite code and reports which slot a joiner would
// get, without mutating anything.
func (that *Registry) CheckInvite(ctx context.Context, code string) (*entity.GameSession, entity.Player, error) {
	session, err := that.gameRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, entity.PlayerNone, err
	}

	if session.IsFinished() {
		return nil, entity.PlayerNone, apperror.ErrSessionAlreadyOver
	}

	slot := session.FirstEmptySlot()
	if slot == entity.PlayerNone {
		return nil, entity.PlayerNone, apperror.ErrSessionFull
	}

	return session, slot, nil
}

// JoinGame seats the participant at the first empty slot of the session the
// invite code maps to and returns the assigned player identity.
func (that *Registry) JoinGame(ctx context.Context, code string, info *entity.Participant) (*entity.GameSession, entity.Player, error) {
	if info == nil || info.Name == "" || !info.Kind.Valid() {
		return nil, entity.PlayerNone, apperror.ErrMalformedRequest
	}

	resolved, err := that.gameRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, entity.PlayerNone, err
	}

	lock := that.sessionLock(resolved.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: another join may have raced us in.
	session, err := that.gameRepo.GetByID(ctx, resolved.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			that.dropSessionLock(resolved.ID)
		}
		return nil, entity.PlayerNone, err
	}

	if session.IsFinished() {
		return nil, entity.PlayerNone, apperror.ErrSessionAlreadyOver
	}

	slot := session.FirstEmptySlot()
	if slot == entity.PlayerNone {
		return nil, entity.PlayerNone, apperror.ErrSessionFull
	}

	seated := *info
	seated.JoinedAt = time.Now().UTC()
	session.Seat(slot, &seated)

	if session.BothSeated() {
		session.Status = entity.StatusOngoing
	}
	session.UpdatedAt = time.Now().UTC()

	if err = that.gameRepo.Save(ctx, session); err != nil {
		return nil, entity.PlayerNone, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("participant joined", "sessionID", session.ID, "slot", slot)

	return session, slot, nil
}

func (that *Registry) GetGame(ctx context.Context, id string) (*entity.GameSession, error) {
	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// MoveResult is the session snapshot after a successful move plus, when the
// move won the game, the completed line.
type MoveResult struct {
	Session     *entity.GameSession
	WinningLine []entity.Coord
}

// SubmitMove applies one move under the session's lock. The terminal
// transition notifies the stats collector exactly once, still inside the
// lock.
func (that *Registry) SubmitMove(ctx context.Context, id string, player entity.Player, row, col int) (*MoveResult, error) {
	if !player.Valid() {
		return nil, apperror.ErrMalformedRequest
	}

	lock := that.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		// A lock held for an expired session would never be cleaned up.
		if errors.Is(err, apperror.ErrSessionNotFound) {
			that.dropSessionLock(id)
		}
		return nil, err
	}

	outcome, err := gomoku.ApplyMove(session, player, row, col)
	if err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now().UTC()

	if err = that.gameRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if session.IsFinished() {
		if err = that.stats.RecordResult(ctx, session); err != nil {
			// The move itself stands; a stats miss is not the caller's
			// problem.
			that.logger.Error("failed to record result", "sessionID", session.ID, "error", err)
		}

		that.dropSessionLock(id)
	}

	return &MoveResult{Session: session, WinningLine: outcome.WinningLine}, nil
}

// ListOpenGames returns non-terminal sessions, most recently updated first.
// Best effort: a backend may know about fewer open sessions than exist.
func (that *Registry) ListOpenGames(ctx context.Context, limit int) ([]*entity.GameSession, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	sessions, err := that.gameRepo.ListOpen(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}

	return sessions, nil
}
