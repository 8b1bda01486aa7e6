package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"

	"loan-desk/domain"
	"loan-desk/repository"
)

const sessionLockStripes = 64

// SessionService loads and stores per-browser UI state. Updates to the same
// session are serialized so each one sees the result of the previous.
type SessionService struct {
	repo  repository.SessionRepository
	locks [sessionLockStripes]sync.Mutex
}

func NewSessionService(repo repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// Resolve returns the session for id, or a new one when id is empty or
// unknown.
func (s *SessionService) Resolve(ctx context.Context, id string) (*domain.Session, error) {
	if id != "" {
		session, err := s.repo.Load(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
	}

	session := &domain.Session{ID: uuid.NewString()}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Update runs fn on the stored session and saves the result. When fn fails
// the session is left unchanged.
func (s *SessionService) Update(
	ctx context.Context,
	id string,
	fn func(*domain.Session) error,
) (*domain.Session, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.Load(ctx, id)
}

func (s *SessionService) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%sessionLockStripes]
}
