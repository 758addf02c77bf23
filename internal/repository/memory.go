package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gomokuhq/gomoku-backend/internal/apperror"
	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

type memoryEntry struct {
	session   *entity.GameSession
	expiresAt time.Time
}

// MemoryGameRepository is the in-process GameRepository variant. Entries
// carry the same retention TTL as the Redis backend; Sweep evicts the
// expired ones.
type MemoryGameRepository struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*memoryEntry
	invites  map[string]string
}

func NewMemoryGameRepository(ttl time.Duration) *MemoryGameRepository {
	return &MemoryGameRepository{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
		invites:  make(map[string]string),
	}
}

func (that *MemoryGameRepository) Save(_ context.Context, session *entity.GameSession) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = &memoryEntry{
		session:   session.Clone(),
		expiresAt: time.Now().Add(that.ttl),
	}
	that.invites[strings.ToUpper(session.InviteCode)] = session.ID

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.GameSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.sessions[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, apperror.ErrSessionNotFound
	}

	return entry.session.Clone(), nil
}

func (that *MemoryGameRepository) GetByInviteCode(ctx context.Context, code string) (*entity.GameSession, error) {
	that.mu.RLock()
	id, ok := that.invites[strings.ToUpper(code)]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrInviteCodeInvalid
	}

	session, err := that.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrInviteCodeInvalid
	}

	return session, nil
}

func (that *MemoryGameRepository) ListOpen(_ context.Context, limit int) ([]*entity.GameSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	now := time.Now()

	sessions := make([]*entity.GameSession, 0, len(that.sessions))
	for _, entry := range that.sessions {
		if now.After(entry.expiresAt) || entry.session.IsFinished() {
			continue
		}
		sessions = append(sessions, entry.session.Clone())
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	return sessions, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.sessions[id]
	if !ok {
		return nil
	}

	delete(that.sessions, id)
	delete(that.invites, strings.ToUpper(entry.session.InviteCode))

	return nil
}

// Sweep removes every session whose retention window has passed and returns
// the evicted ids, so callers can release per-session resources.
func (that *MemoryGameRepository) Sweep(now time.Time) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	var evicted []string
	for id, entry := range that.sessions {
		if now.Before(entry.expiresAt) {
			continue
		}

		delete(that.sessions, id)
		delete(that.invites, strings.ToUpper(entry.session.InviteCode))
		evicted = append(evicted, id)
	}

	return evicted
}
