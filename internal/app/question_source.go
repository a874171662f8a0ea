package app

import (
	"context"

	"exam-battle-service/internal/domain"
)

// QuestionBank samples up to count questions for a subject from a backing
// store (document DB, Postgres, or an in-memory slice).
type QuestionBank interface {
	Sample(ctx context.Context, subject string, count int) ([]domain.Question, error)
}

// BankQuestionSource fetches a random sample from the bank and falls back to
// the fixed built-in pool when the bank errs or comes up short. The fallback
// is deterministic (first count entries) since the pool is small.
type BankQuestionSource struct {
	bank     QuestionBank
	fallback []domain.Question
}

func NewQuestionSource(bank QuestionBank) *BankQuestionSource {
	return &BankQuestionSource{bank: bank, fallback: FallbackPool()}
}

func (s *BankQuestionSource) Fetch(ctx context.Context, subject string, count int) ([]domain.Question, error) {
	if s.bank != nil {
		sample, err := s.bank.Sample(ctx, subject, count)
		if err == nil && len(sample) >= count {
			return sample[:count], nil
		}
	}

	if count > len(s.fallback) {
		count = len(s.fallback)
	}
	return append([]domain.Question(nil), s.fallback[:count]...), nil
}
