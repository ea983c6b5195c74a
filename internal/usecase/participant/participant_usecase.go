package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
)

// Withdrawer releases a participant's partner and removes the participant.
type Withdrawer interface {
	Withdraw(ctx context.Context, participantID string) error
}

type ParticipantUseCase struct {
	store      repository.Store
	withdrawer Withdrawer
	log        *slog.Logger
}

func NewParticipantUseCase(store repository.Store, withdrawer Withdrawer, log *slog.Logger) *ParticipantUseCase {
	return &ParticipantUseCase{
		store:      store,
		withdrawer: withdrawer,
		log:        log,
	}
}

// MatchStatus is what the dashboard shows a participant.
type MatchStatus struct {
	Participant *domain.Participant `json:"participant"`
	PartnerName *string             `json:"partnerName"`
}

// GetUserMatchStatus returns the participant record. The partner's username
// is revealed only once the pair is verified.
func (uc *ParticipantUseCase) GetUserMatchStatus(ctx context.Context, participantID string) (*MatchStatus, error) {
	p, err := uc.store.Participants().GetByID(ctx, participantID)
	if err != nil {
		return nil, err
	}

	status := &MatchStatus{Participant: p}
	if !p.Verified || !p.HasPartner() {
		return status, nil
	}

	partner, err := uc.store.Participants().GetByID(ctx, *p.PartnerID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		uc.log.Warn("verified partner record missing",
			"participant_id", p.ID, "partner_id", *p.PartnerID)
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	name := partner.Username
	status.PartnerName = &name
	return status, nil
}

// ListUsers returns participants newest first, optionally by status.
func (uc *ParticipantUseCase) ListUsers(ctx context.Context, status string) ([]*domain.Participant, error) {
	filter := domain.ParticipantFilter{}
	if status != "" {
		s := domain.ParticipantStatus(status)
		if !s.Valid() {
			return nil, domain.ErrInvalidInput
		}
		filter.Status = s
	}
	return uc.store.Participants().Find(ctx, filter)
}

// DeleteUser releases the participant's partner and removes the record as
// one unit.
func (uc *ParticipantUseCase) DeleteUser(ctx context.Context, participantID string) error {
	if err := uc.withdrawer.Withdraw(ctx, participantID); err != nil {
		return err
	}
	uc.log.Info("participant deleted", "participant_id", participantID)
	return nil
}
