package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.SessionStore.
// Notes:
//   - Sessions themselves stay in a local in-memory map; a session is owned
//     by exactly one connection on this process.
//   - Redis holds liveness markers so an operator (or a future multi-node
//     deployment) can see which participants are mid-quiz across restarts.
//   - Marker writes are best-effort; the in-process map is the source of
//     truth for correctness.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(participantID, displayName string, totalQuestions, maxScore int) (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[participantID]; ok {
		return nil, domain.ErrDuplicateSession
	}
	session := app.NewSession(participantID, displayName, totalQuestions, maxScore)
	s.sessions[participantID] = session
	_ = s.client.Set(context.Background(), s.key(participantID), displayName, s.ttl).Err()
	return session, nil
}

func (s *SessionStore) Get(participantID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[participantID]
	return session, ok
}

func (s *SessionStore) Finalize(participantID string) (domain.Result, error) {
	s.mu.Lock()
	session, ok := s.sessions[participantID]
	if !ok {
		s.mu.Unlock()
		return domain.Result{}, domain.ErrSessionNotFound
	}
	delete(s.sessions, participantID)
	s.mu.Unlock()

	_ = s.client.Del(context.Background(), s.key(participantID)).Err()
	return session.Finalize()
}

func (s *SessionStore) Remove(participantID string) {
	s.mu.Lock()
	delete(s.sessions, participantID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(participantID)).Err()
}

func (s *SessionStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (s *SessionStore) key(participantID string) string {
	return "quiz:session:" + participantID
}
