package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type participantRepository struct {
	col *mongo.Collection
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	doc := fromParticipant(p)
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return translateDuplicate(err)
	}
	p.Version = 1
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *participantRepository) GetByEmail(ctx context.Context, email string) (*domain.Participant, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *participantRepository) Find(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Matched != nil {
		query["matched"] = *filter.Matched
	}
	if filter.TechStack != "" {
		query["techStack"] = filter.TechStack
	}
	if filter.HasPartner != nil {
		if *filter.HasPartner {
			query["partnerId"] = bson.M{"$type": "string"}
		} else {
			query["partnerId"] = nil
		}
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Username != "" {
		query["username"] = filter.Username
	}

	opts := options.Find().SetSort(bson.D{{Key: "registeredAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit)).SetSkip(int64(filter.Offset))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	participants := []*domain.Participant{}
	for cur.Next(ctx) {
		var doc participantDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		participants = append(participants, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) Update(ctx context.Context, p *domain.Participant) error {
	doc := fromParticipant(p)
	doc.Version = p.Version + 1

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID, "version": p.Version}, doc)
	if err != nil {
		return translateDuplicate(err)
	}
	if result.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": p.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrParticipantNotFound
		}
		return domain.ErrVersionConflict
	}
	p.Version++
	return nil
}

func (r *participantRepository) TouchLastActive(ctx context.Context, id string) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastActive": time.Now()}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r *participantRepository) findOne(ctx context.Context, filter bson.M) (*domain.Participant, error) {
	var doc participantDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// translateDuplicate maps a unique index violation to the matching domain error
// by the index name carried in the server message.
func translateDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users_email_key"):
		return domain.ErrEmailTaken
	case strings.Contains(msg, "users_username_key"):
		return domain.ErrUsernameTaken
	}
	return err
}
