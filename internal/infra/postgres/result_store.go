package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizmaster-service/internal/domain"
)

// ResultStore persists finalized quiz results.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Save(ctx context.Context, result domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_results
			(participant_id, display_name, total_score, max_score, correct_answers, total_questions, elapsed_ms, completed_at, answers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.ParticipantID,
		result.DisplayName,
		result.TotalScore,
		result.MaxScore,
		result.CorrectAnswers,
		result.TotalQuestions,
		result.Elapsed.Milliseconds(),
		result.CompletedAt,
		answers,
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) List(ctx context.Context) ([]domain.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT participant_id, display_name, total_score, max_score, correct_answers, total_questions, elapsed_ms, completed_at, answers
		FROM quiz_results
		ORDER BY completed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var (
			r         domain.Result
			elapsedMS int64
			answers   []byte
		)
		if err := rows.Scan(&r.ParticipantID, &r.DisplayName, &r.TotalScore, &r.MaxScore,
			&r.CorrectAnswers, &r.TotalQuestions, &elapsedMS, &r.CompletedAt, &answers); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &r.Answers); err != nil {
				return nil, fmt.Errorf("unmarshal answers: %w", err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
