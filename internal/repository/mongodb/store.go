// Package mongodb stores participants, questions and matches as MongoDB
// documents. Transactions need a replica set or a sharded cluster.
package mongodb

import (
	"context"
	"fmt"

	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	questionsCollection = "questions"
	matchesCollection   = "matches"
)

type store struct {
	client *mongo.Client
	db     *mongo.Database
	inTx   bool
}

func NewStore(client *mongo.Client, db *mongo.Database) repository.Store {
	return &store{client: client, db: db}
}

func (s *store) Participants() repository.ParticipantRepository {
	return &participantRepository{col: s.db.Collection(usersCollection)}
}

func (s *store) Questions() repository.QuestionRepository {
	return &questionRepository{col: s.db.Collection(questionsCollection)}
}

func (s *store) Matches() repository.MatchRepository {
	return &matchRepository{col: s.db.Collection(matchesCollection)}
}

// WithTx runs fn inside a session transaction. The session travels in the
// context handed to fn, so repositories must use that context.
func (s *store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	tx := &store{client: s.client, db: s.db, inTx: true}
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx, tx)
	})
	return err
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("users_email_key").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("users_username_key").SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
					{Key: "matched", Value: 1},
					{Key: "techStack", Value: 1},
				},
				Options: options.Index().SetName("idx_users_pool"),
			},
		},
		questionsCollection: {
			{
				Keys: bson.D{
					{Key: "active", Value: 1},
					{Key: "techStack", Value: 1},
				},
				Options: options.Index().SetName("idx_questions_active"),
			},
		},
		matchesCollection: {
			{
				Keys:    bson.D{{Key: "user1Id", Value: 1}},
				Options: options.Index().SetName("idx_matches_user1"),
			},
			{
				Keys:    bson.D{{Key: "user2Id", Value: 1}},
				Options: options.Index().SetName("idx_matches_user2"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}
