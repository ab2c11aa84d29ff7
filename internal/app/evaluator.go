package app

import (
	"time"

	"quizmaster-service/internal/domain"
)

// CatalogIndex wraps an immutable catalog with an id lookup table built once
// at load, so answer evaluation does not scan the question list per submit.
type CatalogIndex struct {
	catalog domain.Catalog
	byID    map[int]domain.Question
}

// NewCatalogIndex builds the lookup index for a loaded catalog.
func NewCatalogIndex(catalog domain.Catalog) *CatalogIndex {
	byID := make(map[int]domain.Question, len(catalog.Questions))
	for _, q := range catalog.Questions {
		byID[q.ID] = q
	}
	return &CatalogIndex{catalog: catalog, byID: byID}
}

// Question returns the catalog entry for an ID.
func (c *CatalogIndex) Question(id int) (domain.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// Catalog returns the underlying catalog.
func (c *CatalogIndex) Catalog() domain.Catalog { return c.catalog }

// Size returns the number of questions.
func (c *CatalogIndex) Size() int { return len(c.catalog.Questions) }

// Evaluator scores submitted answers against the catalog and maintains a
// session's running totals. It is the only component that interprets
// correctness.
type Evaluator struct {
	catalog *CatalogIndex
	now     func() time.Time
}

// NewEvaluator creates an evaluator over an indexed catalog.
func NewEvaluator(catalog *CatalogIndex) *Evaluator {
	return &Evaluator{catalog: catalog, now: time.Now}
}

// Evaluate scores one submission and applies it to the session. The answer is
// appended to the session log whether or not it is correct; repeated
// submissions for one question are accepted and scored again.
func (e *Evaluator) Evaluate(session *Session, questionID, selectedIndex int) (domain.AnswerResult, error) {
	if session == nil {
		return domain.AnswerResult{}, domain.ErrSessionExpired
	}

	question, ok := e.catalog.Question(questionID)
	if !ok {
		return domain.AnswerResult{}, domain.ErrUnknownQuestion
	}

	answer := domain.SubmittedAnswer{
		QuestionID:    questionID,
		SelectedIndex: selectedIndex,
		ParticipantID: session.ParticipantID(),
		SubmittedAt:   e.now(),
	}
	correct := selectedIndex == question.CorrectIndex
	return session.recordAnswer(answer, correct, question.EffectivePoints())
}
