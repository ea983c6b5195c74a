package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"github.com/google/uuid"
)

// Scheduler holds one deferred match task per participant.
type Scheduler interface {
	Schedule(ctx context.Context, participantID string, at time.Time) error
	Cancel(ctx context.Context, participantID string) error
}

type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type Config struct {
	Delay          time.Duration
	ByTechStack    bool
	AssignLocation bool
	MaxRetries     int
	Locations      []domain.Location
}

type MatchUseCase struct {
	store     repository.Store
	scheduler Scheduler
	publisher Publisher
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
	intn      func(n int) int
}

func NewMatchUseCase(
	store repository.Store,
	scheduler Scheduler,
	publisher Publisher,
	cfg Config,
	log *slog.Logger,
) *MatchUseCase {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &MatchUseCase{
		store:     store,
		scheduler: scheduler,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		intn:      rand.Intn,
	}
}

// Enroll starts matchmaking for a freshly registered participant: either a
// deferred task after the configured delay, or an immediate attempt. When the
// task cannot be stored the participant is released to waiting at once.
func (uc *MatchUseCase) Enroll(ctx context.Context, p *domain.Participant) error {
	if p.Status == domain.StatusDelayMatching {
		at := uc.now().Add(uc.cfg.Delay)
		if err := uc.scheduler.Schedule(ctx, p.ID, at); err != nil {
			uc.log.Error("failed to schedule deferred match, matching now",
				"participant_id", p.ID, "error", err)
			return uc.HandleDeferred(ctx, p.ID)
		}
		uc.log.Info("deferred match scheduled", "participant_id", p.ID, "due", at)
		uc.publish(ctx, domain.EventDelayed, p.ID)
		return nil
	}
	_, err := uc.AttemptMatch(ctx, p.ID, "")
	return err
}

// AttemptMatch pairs the participant with a random waiting candidate. An
// empty techStack falls back to the participant's own stack when matching by
// stack is enabled. A nil match with a nil error means nobody was available
// or the participant is not waiting.
func (uc *MatchUseCase) AttemptMatch(ctx context.Context, participantID, techStack string) (*domain.Match, error) {
	var match *domain.Match
	err := uc.retry(ctx, "attempt", func(ctx context.Context) error {
		match = nil
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			caller, err := tx.Participants().GetByID(ctx, participantID)
			if err != nil {
				return err
			}
			if !caller.IsAvailable() {
				uc.log.Debug("participant not available for matching",
					"participant_id", caller.ID, "status", caller.Status)
				return nil
			}

			filter := techStack
			if filter == "" && uc.cfg.ByTechStack {
				filter = caller.TechStackValue()
			}

			notMatched := false
			candidates, err := tx.Participants().Find(ctx, domain.ParticipantFilter{
				Status:    domain.StatusWaiting,
				Matched:   &notMatched,
				TechStack: filter,
			})
			if err != nil {
				return fmt.Errorf("failed to scan candidates: %w", err)
			}

			pool := make([]*domain.Participant, 0, len(candidates))
			for _, c := range candidates {
				if c.ID != caller.ID && c.IsAvailable() {
					pool = append(pool, c)
				}
			}
			if len(pool) == 0 {
				uc.log.Debug("no candidates available", "participant_id", caller.ID, "tech_stack", filter)
				return nil
			}

			partner := pool[uc.intn(len(pool))]
			match, err = uc.pair(ctx, tx, caller, partner, filter)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	if match != nil {
		uc.afterPair(ctx, match)
	}
	return match, nil
}

// ManualMatch pairs two chosen participants regardless of tech stack.
func (uc *MatchUseCase) ManualMatch(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	if user1ID == "" || user2ID == "" {
		return nil, domain.ErrInvalidInput
	}
	if user1ID == user2ID {
		return nil, domain.ErrCannotMatchSelf
	}

	var match *domain.Match
	err := uc.retry(ctx, "manual", func(ctx context.Context) error {
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			first, err := tx.Participants().GetByID(ctx, user1ID)
			if err != nil {
				return err
			}
			second, err := tx.Participants().GetByID(ctx, user2ID)
			if err != nil {
				return err
			}
			if first.HasPartner() || second.HasPartner() || first.Verified || second.Verified {
				return domain.ErrAlreadyPaired
			}
			match, err = uc.pair(ctx, tx, first, second, "")
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	uc.afterPair(ctx, match)
	return match, nil
}

// HandleDeferred is run by the scheduler when a participant's delay is over.
func (uc *MatchUseCase) HandleDeferred(ctx context.Context, participantID string) error {
	released := false
	err := uc.retry(ctx, "deferred", func(ctx context.Context) error {
		released = false
		return uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
			p, err := tx.Participants().GetByID(ctx, participantID)
			if err != nil {
				return err
			}
			if p.Status != domain.StatusDelayMatching {
				return nil
			}
			p.Status = domain.StatusWaiting
			if err := tx.Participants().Update(ctx, p); err != nil {
				return err
			}
			released = true
			return nil
		})
	})
	if errors.Is(err, domain.ErrParticipantNotFound) {
		uc.log.Info("deferred participant no longer exists", "participant_id", participantID)
		return nil
	}
	if err != nil {
		return err
	}
	if !released {
		uc.log.Debug("deferred match overtaken", "participant_id", participantID)
		return nil
	}

	uc.log.Info("deferred delay over, matching", "participant_id", participantID)
	_, err = uc.AttemptMatch(ctx, participantID, "")
	return err
}

// pair writes both halves and the match record inside tx. a and b must have
// been read in the same transaction.
func (uc *MatchUseCase) pair(ctx context.Context, tx repository.Store, a, b *domain.Participant, techStack string) (*domain.Match, error) {
	q, err := uc.pickQuestion(ctx, tx, techStack)
	if err != nil {
		return nil, err
	}
	loc := uc.pickLocation()
	now := uc.now()

	aHoldsQuestion := uc.intn(2) == 0
	a.Assign(b.ID, q, aHoldsQuestion, loc, now)
	b.Assign(a.ID, q, !aHoldsQuestion, loc, now)

	if err := tx.Participants().Update(ctx, a); err != nil {
		return nil, err
	}
	if err := tx.Participants().Update(ctx, b); err != nil {
		return nil, err
	}

	match := &domain.Match{
		ID:              uuid.NewString(),
		User1ID:         a.ID,
		User2ID:         b.ID,
		QuestionID:      q.ID,
		Question:        q.Question,
		Answer:          q.Answer,
		Hints:           append([]string{}, q.Hints...),
		TechStack:       q.TechStack,
		MeetingLocation: loc,
		Status:          domain.MatchStatusPendingVerification,
		CreatedAt:       now,
	}
	if err := tx.Matches().Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

// pickQuestion prefers an active question of techStack, then any active
// question, then the built-in default.
func (uc *MatchUseCase) pickQuestion(ctx context.Context, tx repository.Store, techStack string) (*domain.Question, error) {
	if techStack != "" {
		scoped, err := tx.Questions().ListActive(ctx, techStack)
		if err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		if len(scoped) > 0 {
			return scoped[uc.intn(len(scoped))], nil
		}
	}

	active, err := tx.Questions().ListActive(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if len(active) > 0 {
		return active[uc.intn(len(active))], nil
	}
	return domain.DefaultQuestion(), nil
}

func (uc *MatchUseCase) pickLocation() *domain.Location {
	if !uc.cfg.AssignLocation || len(uc.cfg.Locations) == 0 {
		return nil
	}
	loc := uc.cfg.Locations[uc.intn(len(uc.cfg.Locations))]
	return &loc
}

func (uc *MatchUseCase) afterPair(ctx context.Context, match *domain.Match) {
	uc.log.Info("participants paired",
		"match_id", match.ID,
		"user1_id", match.User1ID,
		"user2_id", match.User2ID,
		"question_id", match.QuestionID,
	)
	for _, id := range []string{match.User1ID, match.User2ID} {
		uc.cancelDeferred(ctx, id)
		uc.publish(ctx, domain.EventMatched, id)
	}
}

// retry reruns fn while it fails on a stale version.
func (uc *MatchUseCase) retry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	for attempt := 1; attempt <= uc.cfg.MaxRetries; attempt++ {
		err := fn(ctx)
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		uc.log.Warn("concurrent update, retrying", "op", op, "attempt", attempt)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return domain.ErrRetriesExhausted
}

func (uc *MatchUseCase) cancelDeferred(ctx context.Context, participantID string) {
	if err := uc.scheduler.Cancel(ctx, participantID); err != nil {
		uc.log.Error("failed to cancel deferred match", "participant_id", participantID, "error", err)
	}
}

func (uc *MatchUseCase) publish(ctx context.Context, t domain.EventType, participantID string) {
	err := uc.publisher.Publish(ctx, domain.Event{Type: t, ParticipantID: participantID, At: uc.now().UTC()})
	if err != nil {
		uc.log.Warn("failed to publish event", "type", t, "participant_id", participantID, "error", err)
	}
}
