package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

const createQuizResultsSQL = `
CREATE TABLE IF NOT EXISTS quiz_results (
	id              BIGSERIAL PRIMARY KEY,
	participant_id  TEXT NOT NULL,
	display_name    TEXT NOT NULL,
	total_score     INT NOT NULL,
	max_score       INT NOT NULL,
	correct_answers INT NOT NULL,
	total_questions INT NOT NULL,
	elapsed_ms      BIGINT NOT NULL,
	completed_at    TIMESTAMPTZ NOT NULL,
	answers         JSONB NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_quiz_results_participant ON quiz_results (participant_id);
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createQuizResultsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`DROP TABLE IF EXISTS quiz_results`)
			return err
		},
	)
}
