package domain

import "time"

// Question is one multiple-choice question in the catalog. The catalog is
// read-only for the duration of a run, so Question values are never mutated
// after load.
type Question struct {
	ID           int      `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Category     string   `json:"category"`
	Points       int      `json:"points"` // defaults to 1 if zero
}

// EffectivePoints is the score awarded for answering this question correctly.
func (q Question) EffectivePoints() int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// ClientQuestion is the wire-safe view of a Question. It has no field for the
// correct index, so a serialized catalog can never leak the answer key.
type ClientQuestion struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
	Points   int      `json:"points"`
}

// ClientView strips the correct index from a question.
func (q Question) ClientView() ClientQuestion {
	return ClientQuestion{
		ID:       q.ID,
		Text:     q.Text,
		Options:  q.Options,
		Category: q.Category,
		Points:   q.Points,
	}
}

// Catalog is the ordered, immutable question set for a run.
type Catalog struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// MaxScore sums the point values of every question.
func (c Catalog) MaxScore() int {
	total := 0
	for _, q := range c.Questions {
		total += q.EffectivePoints()
	}
	return total
}

// ClientView returns the catalog with correct indices stripped.
func (c Catalog) ClientView() []ClientQuestion {
	out := make([]ClientQuestion, 0, len(c.Questions))
	for _, q := range c.Questions {
		out = append(out, q.ClientView())
	}
	return out
}

// SubmittedAnswer is one answer as recorded in a session's log. Append-only;
// never mutated once recorded.
type SubmittedAnswer struct {
	QuestionID    int       `json:"questionId"`
	SelectedIndex int       `json:"selectedIndex"`
	ParticipantID string    `json:"participantId"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// AnswerResult is the per-submission outcome returned to the participant.
type AnswerResult struct {
	QuestionID   int  `json:"questionId"`
	Correct      bool `json:"isCorrect"`
	Awarded      int  `json:"awarded"`
	CurrentScore int  `json:"currentScore"`
	MaxScore     int  `json:"maxScore"`
}

// Result is the immutable snapshot produced when a session is finalized.
// Ownership transfers to the persistence layer once produced.
type Result struct {
	ParticipantID  string            `json:"participantId"`
	DisplayName    string            `json:"displayName"`
	TotalScore     int               `json:"totalScore"`
	MaxScore       int               `json:"maxScore"`
	CorrectAnswers int               `json:"correctAnswers"`
	TotalQuestions int               `json:"totalQuestions"`
	Elapsed        time.Duration     `json:"elapsedNs"`
	CompletedAt    time.Time         `json:"completedAt"`
	Answers        []SubmittedAnswer `json:"answers"`
}

// Percentage reports the score as a fraction of the maximum, for reporting.
func (r Result) Percentage() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.MaxScore) * 100
}
