package postgres

import (
	"context"
	"fmt"

	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"github.com/jmoiron/sqlx"
)

type store struct {
	db   *sqlx.DB
	ext  sqlx.ExtContext
	inTx bool
}

// NewStore returns a repository.Store backed by PostgreSQL.
func NewStore(db *sqlx.DB) repository.Store {
	return &store{db: db, ext: db}
}

func (s *store) Participants() repository.ParticipantRepository {
	return &participantRepository{db: s.ext}
}

func (s *store) Questions() repository.QuestionRepository {
	return &questionRepository{db: s.ext}
}

func (s *store) Matches() repository.MatchRepository {
	return &matchRepository{db: s.ext}
}

func (s *store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &store{db: s.db, ext: tx, inTx: true}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateTxAbort(err))
	}
	return nil
}
