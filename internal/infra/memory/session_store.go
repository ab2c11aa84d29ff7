package memory

import (
	"sync"
	"time"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// SessionStore is the in-memory implementation of app.SessionStore. The
// mutex guards only the map; session counters are owned by the sessions
// themselves.
type SessionStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock allows deterministic session timestamps in tests.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		now:      now,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(participantID, displayName string, totalQuestions, maxScore int) (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[participantID]; ok {
		return nil, domain.ErrDuplicateSession
	}
	session := app.NewSessionWithClock(participantID, displayName, totalQuestions, maxScore, s.now)
	s.sessions[participantID] = session
	return session, nil
}

func (s *SessionStore) Get(participantID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[participantID]
	return session, ok
}

// Finalize removes the session under the map lock before snapshotting, so a
// second call for the same participant observes an absent key.
func (s *SessionStore) Finalize(participantID string) (domain.Result, error) {
	s.mu.Lock()
	session, ok := s.sessions[participantID]
	if !ok {
		s.mu.Unlock()
		return domain.Result{}, domain.ErrSessionNotFound
	}
	delete(s.sessions, participantID)
	s.mu.Unlock()

	return session.Finalize()
}

func (s *SessionStore) Remove(participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, participantID)
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
