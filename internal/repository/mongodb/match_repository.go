package mongodb

import (
	"context"
	"errors"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type matchRepository struct {
	col *mongo.Collection
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	_, err := r.col.InsertOne(ctx, fromMatch(match))
	return err
}

func (r *matchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user1Id": user1ID, "user2Id": user2ID},
		bson.M{"user1Id": user2ID, "user2Id": user1ID},
	}}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, filter, opts)
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID string) ([]*domain.Match, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"user1Id": userID},
		bson.M{"user2Id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []matchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	matches := make([]*domain.Match, 0, len(docs))
	for i := range docs {
		matches = append(matches, docs[i].toDomain())
	}
	return matches, nil
}

func (r *matchRepository) Update(ctx context.Context, match *domain.Match) error {
	update := bson.M{"$set": bson.M{
		"status":      string(match.Status),
		"completed":   match.Completed,
		"completedAt": match.CompletedAt,
	}}
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": match.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

func (r *matchRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Match, error) {
	var res *mongo.SingleResult
	if opts != nil {
		res = r.col.FindOne(ctx, filter, opts)
	} else {
		res = r.col.FindOne(ctx, filter)
	}
	var doc matchDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}
