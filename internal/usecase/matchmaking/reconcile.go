package matchmaking

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
)

const (
	ReasonPartnerMissing  = "partner_missing"
	ReasonNotReciprocated = "not_reciprocated"
)

type Inconsistency struct {
	ParticipantID string `json:"participantId"`
	PartnerID     string `json:"partnerId"`
	Reason        string `json:"reason"`
	Repaired      bool   `json:"repaired"`
}

type ReconcileReport struct {
	Checked         int             `json:"checked"`
	Inconsistencies []Inconsistency `json:"inconsistencies"`
}

// Reconcile finds participants whose partner link is not symmetric. With
// repair set, each such participant is returned to waiting.
func (uc *MatchUseCase) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	hasPartner := true
	linked, err := uc.store.Participants().Find(ctx, domain.ParticipantFilter{HasPartner: &hasPartner})
	if err != nil {
		return nil, fmt.Errorf("failed to scan linked participants: %w", err)
	}

	report := &ReconcileReport{Checked: len(linked), Inconsistencies: []Inconsistency{}}
	for _, p := range linked {
		reason, err := uc.linkProblem(ctx, uc.store, p)
		if err != nil {
			return nil, err
		}
		if reason == "" {
			continue
		}

		issue := Inconsistency{ParticipantID: p.ID, PartnerID: *p.PartnerID, Reason: reason}
		uc.log.Error("asymmetric pairing detected",
			"participant_id", issue.ParticipantID,
			"partner_id", issue.PartnerID,
			"reason", reason,
			"error", domain.ErrAsymmetricPair,
		)

		if repair {
			repaired, err := uc.repair(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			issue.Repaired = repaired
		}
		report.Inconsistencies = append(report.Inconsistencies, issue)
	}
	return report, nil
}

func (uc *MatchUseCase) linkProblem(ctx context.Context, store repository.Store, p *domain.Participant) (string, error) {
	if !p.HasPartner() {
		return "", nil
	}
	partner, err := store.Participants().GetByID(ctx, *p.PartnerID)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return ReasonPartnerMissing, nil
	}
	if err != nil {
		return "", err
	}
	if partner.PartnerID == nil || *partner.PartnerID != p.ID {
		return ReasonNotReciprocated, nil
	}
	return "", nil
}

// repair clears the orphaned side if it is still inconsistent.
func (uc *MatchUseCase) repair(ctx context.Context, participantID string) (bool, error) {
	repaired := false
	err := uc.retry(ctx, "repair", func(ctx context.Context) error {
		repaired = false
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			p, err := tx.Participants().GetByID(ctx, participantID)
			if err != nil {
				return err
			}
			reason, err := uc.linkProblem(ctx, tx, p)
			if err != nil || reason == "" {
				return err
			}
			if reason == ReasonPartnerMissing {
				if err := deleteMatch(ctx, tx, p.ID, *p.PartnerID); err != nil {
					return err
				}
			}
			p.ClearMatch()
			if err := tx.Participants().Update(ctx, p); err != nil {
				return err
			}
			repaired = true
			return nil
		})
	})
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if repaired {
		uc.publish(ctx, domain.EventRepaired, participantID)
	}
	return repaired, nil
}
