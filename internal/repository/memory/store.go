// Package memory is a process-local repository.Store used by tests and
// by STORE_DRIVER=memory for single-instance demos.
package memory

import (
	"context"
	"sync"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gdugdh24/techmate-hunt/internal/repository"
)

type state struct {
	participants map[string]*domain.Participant
	questions    map[string]*domain.Question
	matches      map[string]*domain.Match
}

func newState() *state {
	return &state{
		participants: make(map[string]*domain.Participant),
		questions:    make(map[string]*domain.Question),
		matches:      make(map[string]*domain.Match),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.participants {
		c.participants[id] = cloneParticipant(p)
	}
	for id, q := range s.questions {
		c.questions[id] = cloneQuestion(q)
	}
	for id, m := range s.matches {
		c.matches[id] = cloneMatch(m)
	}
	return c
}

// Store keeps every record in maps guarded by one mutex. A transaction
// works on a copy of the maps that replaces the live set on commit.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
}

func NewStore() *Store {
	return &Store{mu: &sync.Mutex{}, data: newState()}
}

func (s *Store) Participants() repository.ParticipantRepository {
	return &participantRepository{s: s}
}

func (s *Store) Questions() repository.QuestionRepository {
	return &questionRepository{s: s}
}

func (s *Store) Matches() repository.MatchRepository {
	return &matchRepository{s: s}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// view runs fn with the record set. Outside a transaction it takes the lock.
func (s *Store) view(fn func(st *state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

func cloneParticipant(p *domain.Participant) *domain.Participant {
	c := *p
	c.TechStack = cloneString(p.TechStack)
	c.PartnerID = cloneString(p.PartnerID)
	c.QuestionPart = cloneString(p.QuestionPart)
	c.AnswerPart = cloneString(p.AnswerPart)
	c.Hints = cloneHints(p.Hints)
	c.MeetingLocation = cloneLocation(p.MeetingLocation)
	c.VerifiedAt = cloneTime(p.VerifiedAt)
	c.MatchedAt = cloneTime(p.MatchedAt)
	return &c
}

func cloneQuestion(q *domain.Question) *domain.Question {
	c := *q
	c.TechStack = cloneString(q.TechStack)
	c.Hints = cloneHints(q.Hints)
	return &c
}

func cloneMatch(m *domain.Match) *domain.Match {
	c := *m
	c.TechStack = cloneString(m.TechStack)
	c.Hints = cloneHints(m.Hints)
	c.MeetingLocation = cloneLocation(m.MeetingLocation)
	c.CompletedAt = cloneTime(m.CompletedAt)
	return &c
}
