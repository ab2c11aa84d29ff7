package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/logging"
	"quizmaster-service/internal/metrics"
)

// QuizService contains the core quiz use cases: session lifecycle, answer
// evaluation, and finalization. Connection handlers are its only writers; the
// admin surface calls its read-only accessors.
type QuizService struct {
	sessions  SessionStore
	catalog   *CatalogIndex
	evaluator *Evaluator
	results   ResultStore
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
}

func NewQuizService(sessions SessionStore, catalog *CatalogIndex, results ResultStore, log logrus.FieldLogger, m *metrics.Metrics) *QuizService {
	if log == nil {
		log = logging.NewNop()
	}
	return &QuizService{
		sessions:  sessions,
		catalog:   catalog,
		evaluator: NewEvaluator(catalog),
		results:   results,
		log:       log,
		metrics:   m,
	}
}

// LoadCatalogIndex fetches the catalog through the repository once at startup
// and builds the id lookup index. A catalog without questions is rejected.
func LoadCatalogIndex(ctx context.Context, repo CatalogRepository, catalogID string) (*CatalogIndex, error) {
	catalog, err := repo.GetCatalog(ctx, catalogID)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", catalogID, err)
	}
	if len(catalog.Questions) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return NewCatalogIndex(catalog), nil
}

// Connect opens a scoring session for a participant. An ID that is already
// mid-quiz is rejected; the existing session is untouched.
func (s *QuizService) Connect(participantID, displayName string) (string, error) {
	session, err := s.sessions.Create(participantID, displayName, s.catalog.Size(), s.catalog.Catalog().MaxScore())
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.ConnectionsTotal.Inc()
		s.metrics.ActiveSessions.Set(float64(len(s.sessions.List())))
	}
	s.log.WithFields(logrus.Fields{
		"participant": participantID,
		"name":        session.DisplayName(),
	}).Info("session created")

	return fmt.Sprintf("Connected successfully! Welcome %s", displayName), nil
}

// Questions returns the catalog with correct-answer indices stripped.
func (s *QuizService) Questions() []domain.ClientQuestion {
	return s.catalog.Catalog().ClientView()
}

// SubmitAnswer evaluates one submission for a participant and returns the
// correctness plus running totals.
func (s *QuizService) SubmitAnswer(participantID string, questionID, selectedIndex int) (domain.AnswerResult, error) {
	session, ok := s.sessions.Get(participantID)
	if !ok {
		// Late answer racing a disconnect or finalization.
		return domain.AnswerResult{}, domain.ErrSessionExpired
	}

	result, err := s.evaluator.Evaluate(session, questionID, selectedIndex)
	if err != nil {
		if s.metrics != nil {
			s.metrics.AnswersTotal.WithLabelValues("rejected").Inc()
		}
		return domain.AnswerResult{}, err
	}

	outcome := "incorrect"
	if result.Correct {
		outcome = "correct"
	}
	if s.metrics != nil {
		s.metrics.AnswersTotal.WithLabelValues(outcome).Inc()
	}
	s.log.WithFields(logrus.Fields{
		"participant": participantID,
		"question":    questionID,
		"outcome":     outcome,
		"score":       result.CurrentScore,
		"maxScore":    result.MaxScore,
	}).Info("answer evaluated")

	return result, nil
}

// Finalize converts the participant's session into an immutable result,
// removes it from the store, and hands the snapshot to persistence. A save
// failure is surfaced for operators but does not fail the caller; the
// participant still receives the computed result.
func (s *QuizService) Finalize(ctx context.Context, participantID string) (domain.Result, error) {
	result, err := s.sessions.Finalize(participantID)
	if err != nil {
		return domain.Result{}, err
	}

	if s.metrics != nil {
		s.metrics.FinalizationsTotal.Inc()
		s.metrics.ActiveSessions.Set(float64(len(s.sessions.List())))
	}

	if s.results != nil {
		if err := s.results.Save(ctx, result); err != nil {
			if s.metrics != nil {
				s.metrics.SaveFailuresTotal.Inc()
			}
			s.log.WithError(err).WithField("participant", participantID).Error("result save failed")
		}
	}

	s.log.WithFields(logrus.Fields{
		"participant": participantID,
		"score":       result.TotalScore,
		"maxScore":    result.MaxScore,
		"correct":     result.CorrectAnswers,
		"elapsed":     result.Elapsed.String(),
	}).Info("quiz completed")

	return result, nil
}

// Abandon drops a session without producing a result. Used when a connection
// ends without GET_RESULT.
func (s *QuizService) Abandon(participantID string) {
	s.sessions.Remove(participantID)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(len(s.sessions.List())))
	}
	s.log.WithField("participant", participantID).Info("session abandoned")
}

// Active lists the participant IDs currently mid-quiz.
func (s *QuizService) Active() []string {
	return s.sessions.List()
}

// Results returns the persisted result history for reporting.
func (s *QuizService) Results(ctx context.Context) ([]domain.Result, error) {
	if s.results == nil {
		return nil, nil
	}
	return s.results.List(ctx)
}
