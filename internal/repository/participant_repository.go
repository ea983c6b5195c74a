package repository

import (
	"context"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
)

type ParticipantRepository interface {
	// Create stores a new participant and sets its Version to 1.
	Create(ctx context.Context, p *domain.Participant) error
	GetByID(ctx context.Context, id string) (*domain.Participant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Participant, error)
	// Find returns participants matching every non-zero field of the filter,
	// newest registration first.
	Find(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error)
	// Update writes p only if the stored version still equals p.Version and
	// increments p.Version on success. A stale version yields
	// domain.ErrVersionConflict.
	Update(ctx context.Context, p *domain.Participant) error
	TouchLastActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
