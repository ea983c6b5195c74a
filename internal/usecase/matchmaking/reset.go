package matchmaking

import (
	"context"
	"errors"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
)

// ResetMatch unwinds the participant's pairing and returns both sides to
// waiting. A partner that points elsewhere is left alone.
func (uc *MatchUseCase) ResetMatch(ctx context.Context, participantID string) (*domain.Participant, error) {
	var (
		reset     *domain.Participant
		partnerID string
	)
	err := uc.retry(ctx, "reset", func(ctx context.Context) error {
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			var err error
			reset, partnerID, err = uc.resetTx(ctx, tx, participantID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	uc.cancelDeferred(ctx, participantID)
	uc.log.Info("pairing reset", "participant_id", participantID, "partner_id", partnerID)
	uc.publish(ctx, domain.EventReset, participantID)
	if partnerID != "" {
		uc.publish(ctx, domain.EventReset, partnerID)
	}
	return reset, nil
}

// Withdraw releases the participant's partner and deletes the participant in
// one transaction, so a failed delete leaves the pairing intact.
func (uc *MatchUseCase) Withdraw(ctx context.Context, participantID string) error {
	var partnerID string
	err := uc.retry(ctx, "withdraw", func(ctx context.Context) error {
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			var err error
			if _, partnerID, err = uc.resetTx(ctx, tx, participantID); err != nil {
				return err
			}
			return tx.Participants().Delete(ctx, participantID)
		})
	})
	if err != nil {
		return err
	}

	uc.cancelDeferred(ctx, participantID)
	uc.log.Info("participant withdrawn", "participant_id", participantID, "partner_id", partnerID)
	uc.publish(ctx, domain.EventDeleted, participantID)
	if partnerID != "" {
		uc.publish(ctx, domain.EventReset, partnerID)
	}
	return nil
}

// resetTx clears the pairing inside tx and returns the updated participant
// along with the released partner id, if any.
func (uc *MatchUseCase) resetTx(ctx context.Context, tx repository.Store, participantID string) (*domain.Participant, string, error) {
	p, err := tx.Participants().GetByID(ctx, participantID)
	if err != nil {
		return nil, "", err
	}

	var partnerID string
	if p.HasPartner() {
		id := *p.PartnerID
		if err := uc.clearPartner(ctx, tx, p.ID, id); err != nil {
			return nil, "", err
		}
		if err := deleteMatch(ctx, tx, p.ID, id); err != nil {
			return nil, "", err
		}
		partnerID = id
	}

	p.ClearMatch()
	if err := tx.Participants().Update(ctx, p); err != nil {
		return nil, "", err
	}
	return p, partnerID, nil
}

func (uc *MatchUseCase) clearPartner(ctx context.Context, tx repository.Store, participantID, partnerID string) error {
	partner, err := tx.Participants().GetByID(ctx, partnerID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		uc.log.Warn("partner record missing during reset",
			"participant_id", participantID, "partner_id", partnerID)
		return nil
	}
	if err != nil {
		return err
	}
	if partner.PartnerID == nil || *partner.PartnerID != participantID {
		uc.log.Warn("partner does not point back, leaving it untouched",
			"participant_id", participantID, "partner_id", partnerID)
		return nil
	}
	partner.ClearMatch()
	return tx.Participants().Update(ctx, partner)
}

func deleteMatch(ctx context.Context, tx repository.Store, a, b string) error {
	match, err := tx.Matches().GetByUsers(ctx, a, b)
	if errors.Is(err, domain.ErrMatchNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Matches().Delete(ctx, match.ID)
}
