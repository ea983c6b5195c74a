package mongodb

import (
	"context"
	"errors"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type questionRepository struct {
	col *mongo.Collection
}

func (r *questionRepository) Create(ctx context.Context, q *domain.Question) error {
	_, err := r.col.InsertOne(ctx, fromQuestion(q))
	return err
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var doc questionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *questionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	return r.find(ctx, bson.M{})
}

func (r *questionRepository) ListActive(ctx context.Context, techStack string) ([]*domain.Question, error) {
	filter := bson.M{"active": true}
	if techStack != "" {
		filter["techStack"] = techStack
	}
	return r.find(ctx, filter)
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) find(ctx context.Context, filter bson.M) ([]*domain.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []questionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	questions := make([]*domain.Question, 0, len(docs))
	for i := range docs {
		questions = append(questions, docs[i].toDomain())
	}
	return questions, nil
}
