package question

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"github.com/google/uuid"
)

const generatedHintCount = 3

// HintGenerator suggests hints for a question submitted without any.
type HintGenerator interface {
	GenerateHints(ctx context.Context, question, answer string, count int) ([]string, error)
}

type QuestionUseCase struct {
	store repository.Store
	hints HintGenerator
	log   *slog.Logger
	now   func() time.Time
}

// NewQuestionUseCase builds the question bank. hints may be nil.
func NewQuestionUseCase(store repository.Store, hints HintGenerator, log *slog.Logger) *QuestionUseCase {
	return &QuestionUseCase{
		store: store,
		hints: hints,
		log:   log,
		now:   time.Now,
	}
}

// AddQuestionRequest represents an admin question submission
type AddQuestionRequest struct {
	Question  string   `json:"question" binding:"required"`
	Answer    string   `json:"answer" binding:"required"`
	Hints     []string `json:"hints"`
	TechStack *string  `json:"techStack" binding:"omitempty,techstack"`
}

// Bootstrap fills an empty bank with the default corpus and returns how
// many questions it inserted.
func (uc *QuestionUseCase) Bootstrap(ctx context.Context) (int, error) {
	count, err := uc.store.Questions().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	err = uc.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		createdAt := uc.now()
		for _, stack := range domain.TechStacks {
			for _, s := range defaultQuestions[stack] {
				techStack := stack
				q := &domain.Question{
					ID:        uuid.NewString(),
					Question:  s.question,
					Answer:    s.answer,
					Hints:     append([]string{}, s.hints...),
					TechStack: &techStack,
					Active:    true,
					CreatedAt: createdAt,
				}
				if err := tx.Questions().Create(ctx, q); err != nil {
					return err
				}
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert default questions: %w", err)
	}

	uc.log.Info("question bank bootstrapped", "count", inserted)
	return inserted, nil
}

func (uc *QuestionUseCase) AddQuestion(ctx context.Context, req *AddQuestionRequest) (*domain.Question, error) {
	text := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if text == "" || answer == "" {
		return nil, domain.ErrInvalidInput
	}

	var techStack *string
	if req.TechStack != nil {
		if ts := strings.TrimSpace(*req.TechStack); ts != "" {
			if !domain.ValidTechStack(ts) {
				return nil, domain.ErrInvalidInput
			}
			techStack = &ts
		}
	}

	hints := make([]string, 0, len(req.Hints))
	for _, h := range req.Hints {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, h)
		}
	}
	generated := len(hints) == 0
	if generated {
		if uc.hints == nil {
			return nil, domain.ErrHintsRequired
		}
		suggested, err := uc.hints.GenerateHints(ctx, text, answer, generatedHintCount)
		if err != nil || len(suggested) == 0 {
			uc.log.Warn("hint generation failed", "error", err)
			return nil, domain.ErrHintsRequired
		}
		hints = suggested
	}

	q := &domain.Question{
		ID:        uuid.NewString(),
		Question:  text,
		Answer:    answer,
		Hints:     hints,
		TechStack: techStack,
		Active:    true,
		CreatedAt: uc.now(),
	}
	if err := uc.store.Questions().Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	uc.log.Info("question added", "question_id", q.ID, "generated_hints", generated)
	return q, nil
}

func (uc *QuestionUseCase) ListQuestions(ctx context.Context) ([]*domain.Question, error) {
	questions, err := uc.store.Questions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (uc *QuestionUseCase) DeleteQuestion(ctx context.Context, id string) error {
	if err := uc.store.Questions().Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("question deleted", "question_id", id)
	return nil
}
