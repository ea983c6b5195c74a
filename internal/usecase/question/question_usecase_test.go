package question

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHints struct {
	hints []string
	err   error
	calls int
}

func (s *stubHints) GenerateHints(ctx context.Context, question, answer string, count int) ([]string, error) {
	s.calls++
	return s.hints, s.err
}

func newUseCase(hints HintGenerator) (*QuestionUseCase, *memory.Store) {
	store := memory.NewStore()
	return NewQuestionUseCase(store, hints, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func strPtr(s string) *string { return &s }

func TestBootstrapInsertsCorpusOnce(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(nil)

	n, err := uc.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 28, n)

	active, err := store.Questions().ListActive(ctx, "devops")
	require.NoError(t, err)
	assert.Len(t, active, 4)
	for _, q := range active {
		assert.Len(t, q.Hints, 3)
		assert.True(t, q.Active)
	}

	n, err = uc.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := store.Questions().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(28), total)
}

func TestAddQuestionDropsBlankHints(t *testing.T) {
	uc, _ := newUseCase(nil)

	q, err := uc.AddQuestion(context.Background(), &AddQuestionRequest{
		Question:  " What serves static files? ",
		Answer:    "Nginx",
		Hints:     []string{"", "Web server", "   ", "Reverse proxy"},
		TechStack: strPtr("devops"),
	})
	require.NoError(t, err)
	assert.Equal(t, "What serves static files?", q.Question)
	assert.Equal(t, []string{"Web server", "Reverse proxy"}, q.Hints)
	assert.True(t, q.Active)
	require.NotNil(t, q.TechStack)
	assert.Equal(t, "devops", *q.TechStack)
}

func TestAddQuestionRequiresHintsWithoutGenerator(t *testing.T) {
	uc, _ := newUseCase(nil)

	_, err := uc.AddQuestion(context.Background(), &AddQuestionRequest{
		Question: "What is Go's concurrency unit?",
		Answer:   "Goroutine",
		Hints:    []string{" "},
	})
	assert.ErrorIs(t, err, domain.ErrHintsRequired)
}

func TestAddQuestionUsesGenerator(t *testing.T) {
	gen := &stubHints{hints: []string{"Lightweight thread", "Started with go"}}
	uc, _ := newUseCase(gen)

	q, err := uc.AddQuestion(context.Background(), &AddQuestionRequest{
		Question: "What is Go's concurrency unit?",
		Answer:   "Goroutine",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, gen.hints, q.Hints)
	assert.Nil(t, q.TechStack)
}

func TestAddQuestionGeneratorFailure(t *testing.T) {
	uc, _ := newUseCase(&stubHints{err: errors.New("quota")})

	_, err := uc.AddQuestion(context.Background(), &AddQuestionRequest{Question: "Q?", Answer: "A"})
	assert.ErrorIs(t, err, domain.ErrHintsRequired)
}

func TestAddQuestionValidation(t *testing.T) {
	uc, _ := newUseCase(nil)
	ctx := context.Background()

	_, err := uc.AddQuestion(ctx, &AddQuestionRequest{Question: "  ", Answer: "A", Hints: []string{"h"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AddQuestion(ctx, &AddQuestionRequest{Question: "Q", Answer: "A", Hints: []string{"h"}, TechStack: strPtr("cobol")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteQuestion(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(nil)

	q, err := uc.AddQuestion(ctx, &AddQuestionRequest{Question: "Q", Answer: "A", Hints: []string{"h"}})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteQuestion(ctx, q.ID))
	assert.ErrorIs(t, uc.DeleteQuestion(ctx, q.ID), domain.ErrQuestionNotFound)

	list, err := uc.ListQuestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
