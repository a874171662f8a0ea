package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"exam-battle-service/internal/domain"
)

// QuestionBank serves random samples from an in-memory slice. Used when no
// persistent bank is configured and as the seedable bank in tests.
type QuestionBank struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	questions []domain.Question
}

func NewQuestionBank(questions []domain.Question) *QuestionBank {
	return &QuestionBank{
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		questions: append([]domain.Question(nil), questions...),
	}
}

func (b *QuestionBank) Sample(_ context.Context, subject string, count int) ([]domain.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool := make([]domain.Question, 0, len(b.questions))
	for _, q := range b.questions {
		if q.Subject == subject {
			pool = append(pool, q)
		}
	}

	b.rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count < len(pool) {
		pool = pool[:count]
	}
	return pool, nil
}
