package repository

import (
	"context"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) error
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context) ([]*domain.Question, error)
	// ListActive returns active questions, restricted to techStack when it is non-empty.
	ListActive(ctx context.Context, techStack string) ([]*domain.Question, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}
