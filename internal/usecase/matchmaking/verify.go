package matchmaking

import (
	"context"
	"errors"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
)

// Verify confirms the pairing when code equals the caller's partner id.
// One successful call verifies both sides and completes the match record.
func (uc *MatchUseCase) Verify(ctx context.Context, participantID, code string) (*domain.Participant, error) {
	var (
		verified  *domain.Participant
		partnerID string
	)
	err := uc.retry(ctx, "verify", func(ctx context.Context) error {
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			p, err := tx.Participants().GetByID(ctx, participantID)
			if err != nil {
				return err
			}
			if p.Verified {
				return domain.ErrAlreadyVerified
			}
			if !p.HasPartner() {
				return domain.ErrNoPartner
			}
			if code != *p.PartnerID {
				return domain.ErrInvalidCode
			}

			partner, err := tx.Participants().GetByID(ctx, *p.PartnerID)
			if err != nil {
				if errors.Is(err, domain.ErrParticipantNotFound) {
					return domain.ErrPartnerNotFound
				}
				return err
			}
			if partner.PartnerID == nil || *partner.PartnerID != p.ID {
				uc.log.Error("partner does not point back, refusing to verify",
					"participant_id", p.ID, "partner_id", partner.ID)
				return domain.ErrAsymmetricPair
			}

			now := uc.now()
			p.MarkVerified(now)
			partner.MarkVerified(now)
			if err := tx.Participants().Update(ctx, p); err != nil {
				return err
			}
			if err := tx.Participants().Update(ctx, partner); err != nil {
				return err
			}

			match, err := tx.Matches().GetByUsers(ctx, p.ID, partner.ID)
			switch {
			case errors.Is(err, domain.ErrMatchNotFound):
				uc.log.Warn("verified pair has no match record",
					"participant_id", p.ID, "partner_id", partner.ID)
			case err != nil:
				return err
			default:
				match.Complete(now)
				if err := tx.Matches().Update(ctx, match); err != nil {
					return err
				}
			}

			verified = p
			partnerID = partner.ID
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("pair verified", "participant_id", participantID, "partner_id", partnerID)
	uc.publish(ctx, domain.EventVerified, participantID)
	uc.publish(ctx, domain.EventVerified, partnerID)
	return verified, nil
}
