package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"exam-battle-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionBank samples question JSONB rows from Postgres.
type QuestionBank struct {
	pool *pgxpool.Pool
}

func NewQuestionBank(pool *pgxpool.Pool) *QuestionBank {
	return &QuestionBank{pool: pool}
}

func (b *QuestionBank) Sample(ctx context.Context, subject string, count int) ([]domain.Question, error) {
	rows, err := b.pool.Query(ctx,
		`SELECT data FROM questions WHERE subject=$1 ORDER BY random() LIMIT $2`, subject, count)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
