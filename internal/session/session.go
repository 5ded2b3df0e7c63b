package session

import (
	"context"
	"errors"
	"sync"

	"dinopark/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store keeps issued sessions for their lifetime. Expired sessions are
// reported as absent; lifetimes are never extended on read.
type Store interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, sid string) (models.Session, error)
	Delete(ctx context.Context, sid string) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
	}
}

func (s *MemoryStore) Save(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess

	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sid]
	s.mu.RUnlock()

	if !ok {
		return models.Session{}, ErrNotFound
	}

	if sess.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()

		return models.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid)

	return nil
}
