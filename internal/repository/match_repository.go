package repository

import (
	"context"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id string) (*domain.Match, error)
	// GetByUsers finds the match linking the two users in either order.
	GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error)
	GetUserMatches(ctx context.Context, userID string) ([]*domain.Match, error)
	Update(ctx context.Context, match *domain.Match) error
	Delete(ctx context.Context, id string) error
}
