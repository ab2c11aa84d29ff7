package app

import (
	"sync"
	"time"

	"quizmaster-service/internal/domain"
)

type sessionState int

const (
	stateCreated sessionState = iota
	stateInProgress
	stateFinalized
)

// Session is the live scoring state for one participant's attempt. Score and
// counter updates come only from the owning connection's handler, so the
// internal mutex guards against concurrent read-side snapshots (admin
// listing, finalization racing a late answer), not competing writers.
type Session struct {
	mu             sync.Mutex
	participantID  string
	displayName    string
	startedAt      time.Time
	now            func() time.Time
	state          sessionState
	score          int
	correctCount   int
	totalQuestions int
	maxScore       int
	answers        []domain.SubmittedAnswer
}

// NewSession creates a session with the catalog size and maximum score
// snapshot taken at creation time.
func NewSession(participantID, displayName string, totalQuestions, maxScore int) *Session {
	return NewSessionWithClock(participantID, displayName, totalQuestions, maxScore, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(participantID, displayName string, totalQuestions, maxScore int, now func() time.Time) *Session {
	return &Session{
		participantID:  participantID,
		displayName:    displayName,
		startedAt:      now(),
		now:            now,
		totalQuestions: totalQuestions,
		maxScore:       maxScore,
	}
}

// ParticipantID returns the session's key.
func (s *Session) ParticipantID() string { return s.participantID }

// DisplayName returns the participant's display name.
func (s *Session) DisplayName() string { return s.displayName }

// recordAnswer appends the answer to the log and, when correct, applies the
// awarded points. Answers are accepted unconditionally, including repeated
// submissions for the same question; there is no idempotence across retries.
func (s *Session) recordAnswer(answer domain.SubmittedAnswer, correct bool, points int) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateFinalized {
		return domain.AnswerResult{}, domain.ErrSessionExpired
	}
	s.state = stateInProgress

	s.answers = append(s.answers, answer)

	awarded := 0
	if correct {
		awarded = points
		s.score += points
		s.correctCount++
	}

	return domain.AnswerResult{
		QuestionID:   answer.QuestionID,
		Correct:      correct,
		Awarded:      awarded,
		CurrentScore: s.score,
		MaxScore:     s.maxScore,
	}, nil
}

// Finalize transitions the session to its terminal state and returns the
// immutable result snapshot. Callers go through the store, which guarantees
// exactly-once by removing the session from the map first.
func (s *Session) Finalize() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateFinalized {
		return domain.Result{}, domain.ErrSessionExpired
	}
	s.state = stateFinalized

	completedAt := s.now()
	answers := make([]domain.SubmittedAnswer, len(s.answers))
	copy(answers, s.answers)

	return domain.Result{
		ParticipantID:  s.participantID,
		DisplayName:    s.displayName,
		TotalScore:     s.score,
		MaxScore:       s.maxScore,
		CorrectAnswers: s.correctCount,
		TotalQuestions: s.totalQuestions,
		Elapsed:        completedAt.Sub(s.startedAt),
		CompletedAt:    completedAt,
		Answers:        answers,
	}, nil
}

// Progress reports the running score and correct count for observability.
func (s *Session) Progress() (score, maxScore, correct, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, s.maxScore, s.correctCount, s.totalQuestions
}
