package mongo

import (
	"context"
	"fmt"

	"exam-battle-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionBank samples questions from a document collection using the
// $sample aggregation stage, filtered by subject.
type QuestionBank struct {
	col *mongo.Collection
}

func NewQuestionBank(db *mongo.Database) *QuestionBank {
	return &QuestionBank{col: db.Collection("questions")}
}

func (b *QuestionBank) Sample(ctx context.Context, subject string, count int) ([]domain.Question, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"subject": subject}}},
		bson.D{{Key: "$sample", Value: bson.M{"size": count}}},
	}

	cursor, err := b.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []domain.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}
