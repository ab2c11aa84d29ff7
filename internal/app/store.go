package app

import (
	"context"

	"quizmaster-service/internal/domain"
)

// SessionStore abstracts how active sessions are tracked (in-memory, Redis
// liveness, etc). It is the single authority for which participants are
// mid-quiz. Implementations guard the map only; per-session counters are
// single-writer and protected by the session itself.
type SessionStore interface {
	// Create registers a new session, failing with domain.ErrDuplicateSession
	// if the participant already has one. The catalog size and maximum score
	// are snapshot at this instant.
	Create(participantID, displayName string, totalQuestions, maxScore int) (*Session, error)
	// Get returns the active session for a participant.
	Get(participantID string) (*Session, bool)
	// Finalize atomically removes the session and returns its immutable
	// snapshot. A second call for the same participant fails with
	// domain.ErrSessionNotFound.
	Finalize(participantID string) (domain.Result, error)
	// Remove drops a session without producing a snapshot (abandonment).
	Remove(participantID string)
	// List returns the participant IDs currently mid-quiz.
	List() []string
}

// CatalogRepository loads catalog content, typically through a cache in
// front of a backing store.
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// ResultStore persists finalized results and exposes them for reporting.
type ResultStore interface {
	Save(ctx context.Context, result domain.Result) error
	List(ctx context.Context) ([]domain.Result, error)
}
