package app_test

import (
	"context"
	"sync"
	"testing"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
	"quizmaster-service/internal/infra/memory"
)

func TestConnectAndScoring(t *testing.T) {
	ctx := context.Background()
	service, saver := newTestService(t)

	welcome, err := service.Connect("s1", "Alice")
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if welcome == "" {
		t.Fatalf("expected welcome text")
	}

	result, err := service.SubmitAnswer("s1", 1, 1)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.Correct || result.CurrentScore != 10 || result.MaxScore != 10 {
		t.Fatalf("expected correct 10/10, got %+v", result)
	}

	final, err := service.Finalize(ctx, "s1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if final.TotalScore != 10 || final.MaxScore != 10 || final.CorrectAnswers != 1 || final.TotalQuestions != 1 {
		t.Fatalf("unexpected final result: %+v", final)
	}
	if len(final.Answers) != 1 {
		t.Fatalf("expected 1 logged answer, got %d", len(final.Answers))
	}
	if len(saver.results()) != 1 {
		t.Fatalf("expected result persisted once, got %d", len(saver.results()))
	}
}

func TestRepeatedSubmissionIsScoredAgain(t *testing.T) {
	// Retries for the same question are accepted and scored; there is no
	// duplicate-submission rejection.
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	wrong, err := service.SubmitAnswer("s1", 1, 0)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if wrong.Correct || wrong.CurrentScore != 0 || wrong.MaxScore != 10 {
		t.Fatalf("expected incorrect 0/10, got %+v", wrong)
	}

	retry, err := service.SubmitAnswer("s1", 1, 1)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if !retry.Correct || retry.CurrentScore != 10 {
		t.Fatalf("expected retry to score 10, got %+v", retry)
	}

	final, err := service.Finalize(ctx, "s1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(final.Answers) != 2 {
		t.Fatalf("expected both submissions logged, got %d", len(final.Answers))
	}
}

func TestUnknownQuestionLeavesTotalsUnchanged(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	if _, err := service.SubmitAnswer("s1", 999, 0); err != domain.ErrUnknownQuestion {
		t.Fatalf("expected unknown question error, got %v", err)
	}

	final, err := service.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if final.TotalScore != 0 || final.CorrectAnswers != 0 || len(final.Answers) != 0 {
		t.Fatalf("expected untouched totals, got %+v", final)
	}
}

func TestDuplicateConnectRejected(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if _, err := service.SubmitAnswer("s1", 1, 1); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := service.Connect("s1", "Impostor"); err != domain.ErrDuplicateSession {
		t.Fatalf("expected duplicate session error, got %v", err)
	}

	// Original session is untouched by the rejected connect.
	final, err := service.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if final.DisplayName != "Alice" || final.TotalScore != 10 {
		t.Fatalf("original session was disturbed: %+v", final)
	}
}

func TestFinalizeExactlyOnce(t *testing.T) {
	ctx := context.Background()
	service, saver := newTestService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if _, err := service.Finalize(ctx, "s1"); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if _, err := service.Finalize(ctx, "s1"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected not found on second finalize, got %v", err)
	}
	if _, err := service.SubmitAnswer("s1", 1, 1); err != domain.ErrSessionExpired {
		t.Fatalf("expected expired on post-finalize submit, got %v", err)
	}
	if len(saver.results()) != 1 {
		t.Fatalf("expected exactly one persisted result, got %d", len(saver.results()))
	}
}

func TestAbandonDiscardsSession(t *testing.T) {
	service, saver := newTestService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if _, err := service.SubmitAnswer("s1", 1, 1); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	service.Abandon("s1")

	if active := service.Active(); len(active) != 0 {
		t.Fatalf("expected no active sessions, got %v", active)
	}
	if len(saver.results()) != 0 {
		t.Fatalf("abandoned session must not be persisted, got %d results", len(saver.results()))
	}
}

func TestScoreInvariantHoldsAfterEverySubmit(t *testing.T) {
	service, _ := newMultiQuestionService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	submissions := []struct {
		questionID int
		index      int
		points     int // awarded if correct, 0 otherwise
	}{
		{1, 1, 10},
		{2, 0, 0},
		{3, 2, 5},
		{2, 3, 20},
		{1, 0, 0},
	}

	expected := 0
	for i, sub := range submissions {
		result, err := service.SubmitAnswer("s1", sub.questionID, sub.index)
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		expected += sub.points
		if result.CurrentScore != expected {
			t.Fatalf("after submit %d: score %d, want %d", i, result.CurrentScore, expected)
		}
		if result.CurrentScore < 0 || result.CurrentScore > result.MaxScore {
			t.Fatalf("score invariant violated after submit %d: %+v", i, result)
		}
	}
}

func TestConcurrentSessionsNoLostUpdates(t *testing.T) {
	const submitsEach = 50
	service, _ := newTestService(t)

	if _, err := service.Connect("a", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if _, err := service.Connect("b", "Bob"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(participant string) {
			defer wg.Done()
			for i := 0; i < submitsEach; i++ {
				if _, err := service.SubmitAnswer(participant, 1, 1); err != nil {
					t.Errorf("submit for %s failed: %v", participant, err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	for _, id := range []string{"a", "b"} {
		final, err := service.Finalize(context.Background(), id)
		if err != nil {
			t.Fatalf("finalize %s failed: %v", id, err)
		}
		if final.TotalScore != submitsEach*10 || final.CorrectAnswers != submitsEach {
			t.Fatalf("lost updates for %s: %+v", id, final)
		}
	}
}

func TestSubmitAfterDisconnectRace(t *testing.T) {
	service, _ := newTestService(t)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	service.Abandon("s1")

	if _, err := service.SubmitAnswer("s1", 1, 1); err != domain.ErrSessionExpired {
		t.Fatalf("expected expired for late answer, got %v", err)
	}
}

func TestSaveFailureDoesNotFailFinalize(t *testing.T) {
	saver := &captureStore{failSave: true}
	service := newServiceWith(t, singleQuestionCatalog(), saver)

	if _, err := service.Connect("s1", "Alice"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	final, err := service.Finalize(context.Background(), "s1")
	if err != nil {
		t.Fatalf("finalize must survive a save failure, got %v", err)
	}
	if final.ParticipantID != "s1" {
		t.Fatalf("unexpected result: %+v", final)
	}
}

// captureStore is an in-memory app.ResultStore for tests.
type captureStore struct {
	mu       sync.Mutex
	saved    []domain.Result
	failSave bool
}

func (c *captureStore) Save(_ context.Context, result domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSave {
		return context.DeadlineExceeded
	}
	c.saved = append(c.saved, result)
	return nil
}

func (c *captureStore) List(_ context.Context) ([]domain.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Result, len(c.saved))
	copy(out, c.saved)
	return out, nil
}

func (c *captureStore) results() []domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Result, len(c.saved))
	copy(out, c.saved)
	return out
}

func singleQuestionCatalog() domain.Catalog {
	return domain.Catalog{
		ID: "default",
		Questions: []domain.Question{
			{
				ID:           1,
				Text:         "Pick the second option",
				Options:      []string{"first", "second"},
				CorrectIndex: 1,
				Category:     "General",
				Points:       10,
			},
		},
	}
}

func newServiceWith(t *testing.T, catalog domain.Catalog, saver app.ResultStore) *app.QuizService {
	t.Helper()
	return app.NewQuizService(memory.NewSessionStore(), app.NewCatalogIndex(catalog), saver, nil, nil)
}

func newTestService(t *testing.T) (*app.QuizService, *captureStore) {
	t.Helper()
	saver := &captureStore{}
	return newServiceWith(t, singleQuestionCatalog(), saver), saver
}

func newMultiQuestionService(t *testing.T) (*app.QuizService, *captureStore) {
	t.Helper()
	saver := &captureStore{}
	catalog := domain.Catalog{
		ID: "default",
		Questions: []domain.Question{
			{ID: 1, Text: "q1", Options: []string{"a", "b"}, CorrectIndex: 1, Points: 10},
			{ID: 2, Text: "q2", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3, Points: 20},
			{ID: 3, Text: "q3", Options: []string{"a", "b", "c"}, CorrectIndex: 2, Points: 5},
		},
	}
	return newServiceWith(t, catalog, saver), saver
}
