package matchmaking

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
	"github.com/gdugdh24/techmate-hunt/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)

type fakeScheduler struct {
	mu          sync.Mutex
	scheduled   map[string]time.Time
	cancelled   []string
	scheduleErr error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[string]time.Time)}
}

func (s *fakeScheduler) Schedule(ctx context.Context, participantID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduleErr != nil {
		return s.scheduleErr
	}
	s.scheduled[participantID] = at
	return nil
}

func (s *fakeScheduler) Cancel(ctx context.Context, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scheduled, participantID)
	s.cancelled = append(s.cancelled, participantID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) typesFor(participantID string) []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.EventType
	for _, e := range p.events {
		if e.ParticipantID == participantID {
			out = append(out, e.Type)
		}
	}
	return out
}

type fixture struct {
	uc        *MatchUseCase
	store     *memory.Store
	scheduler *fakeScheduler
	publisher *fakePublisher
}

func defaultConfig() Config {
	return Config{
		Delay:          30 * time.Minute,
		ByTechStack:    true,
		AssignLocation: true,
		MaxRetries:     3,
		Locations:      []domain.Location{{ID: 1, Name: "Library"}, {ID: 2, Name: "Bridge"}},
	}
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	sched := newFakeScheduler()
	pub := &fakePublisher{}
	uc := NewMatchUseCase(store, sched, pub, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	uc.now = func() time.Time { return testNow }
	return &fixture{uc: uc, store: store, scheduler: sched, publisher: pub}
}

func (f *fixture) register(t *testing.T, id, techStack string, status domain.ParticipantStatus) *domain.Participant {
	t.Helper()
	p := &domain.Participant{
		ID:           id,
		Email:        id + "@techmate.com",
		Username:     id,
		Status:       status,
		Hints:        []string{},
		RegisteredAt: testNow,
		LastActive:   testNow,
	}
	if techStack != "" {
		ts := techStack
		p.TechStack = &ts
	}
	require.NoError(t, f.store.Participants().Create(context.Background(), p))
	return p
}

func (f *fixture) addQuestion(t *testing.T, id, techStack, answer string) {
	t.Helper()
	q := &domain.Question{
		ID:        id,
		Question:  "Question for " + answer,
		Answer:    answer,
		Hints:     []string{"hint one", "hint two"},
		Active:    true,
		CreatedAt: testNow,
	}
	if techStack != "" {
		ts := techStack
		q.TechStack = &ts
	}
	require.NoError(t, f.store.Questions().Create(context.Background(), q))
}

func (f *fixture) get(t *testing.T, id string) *domain.Participant {
	t.Helper()
	p, err := f.store.Participants().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

// requirePaired checks the two records form one consistent pending pair.
func requirePaired(t *testing.T, a, b *domain.Participant) {
	t.Helper()
	require.NotNil(t, a.PartnerID)
	require.NotNil(t, b.PartnerID)
	require.Equal(t, b.ID, *a.PartnerID)
	require.Equal(t, a.ID, *b.PartnerID)
	require.True(t, (a.QuestionPart == nil) != (a.AnswerPart == nil))
	require.True(t, (b.QuestionPart == nil) != (b.AnswerPart == nil))
	require.True(t, (a.QuestionPart == nil) == (b.AnswerPart == nil))
	require.Equal(t, a.Hints, b.Hints)
	require.Equal(t, a.MeetingLocation, b.MeetingLocation)
}

// conflictStore fails participant updates with a version conflict until
// its budget runs out.
type conflictStore struct {
	repository.Store
	remaining *int
}

func (s *conflictStore) Participants() repository.ParticipantRepository {
	return &conflictParticipants{ParticipantRepository: s.Store.Participants(), remaining: s.remaining}
}

func (s *conflictStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return fn(ctx, &conflictStore{Store: tx, remaining: s.remaining})
	})
}

type conflictParticipants struct {
	repository.ParticipantRepository
	remaining *int
}

func (r *conflictParticipants) Update(ctx context.Context, p *domain.Participant) error {
	if *r.remaining > 0 {
		*r.remaining--
		return domain.ErrVersionConflict
	}
	return r.ParticipantRepository.Update(ctx, p)
}

// deleteFailStore rejects every participant delete.
type deleteFailStore struct {
	repository.Store
	err error
}

func (s *deleteFailStore) Participants() repository.ParticipantRepository {
	return &deleteFailParticipants{ParticipantRepository: s.Store.Participants(), err: s.err}
}

func (s *deleteFailStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return fn(ctx, &deleteFailStore{Store: tx, err: s.err})
	})
}

type deleteFailParticipants struct {
	repository.ParticipantRepository
	err error
}

func (r *deleteFailParticipants) Delete(ctx context.Context, id string) error {
	return r.err
}
