package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-desk/domain"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// CacheSessionRepository keeps sessions as JSON documents in a cache.
type CacheSessionRepository struct {
	cache CacheRepository
	ttl   time.Duration
}

func NewCacheSessionRepository(cache CacheRepository, ttl time.Duration) *CacheSessionRepository {
	return &CacheSessionRepository{cache: cache, ttl: ttl}
}

func (r *CacheSessionRepository) Load(ctx context.Context, id string) (*domain.Session, error) {
	raw, ok := r.cache.Get(ctx, sessionKeyPrefix+id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &session, nil
}

func (r *CacheSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	if err := r.cache.Set(ctx, sessionKeyPrefix+session.ID, string(data), r.ttl); err != nil {
		return fmt.Errorf("failed to store session %s: %w", session.ID, err)
	}
	return nil
}

func (r *CacheSessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, sessionKeyPrefix+id)
}
